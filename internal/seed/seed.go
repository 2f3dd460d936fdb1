// Package seed loads demonstration records into a running portal
// instance through its HTTP API.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/pkg/logger"
)

// Config controls the seeding run.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	WithPhotos bool
}

type exhibitorPayload struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Products       string  `json:"products"`
	City           string  `json:"city"`
	BusinessVolume float64 `json:"business_volume"`
	Visitors       int     `json:"visitors"`
}

type photoPayload struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// demoExhibitors mirrors the sample registry shipped with the original
// installation, covering most categories and the larger Rondônia cities.
func demoExhibitors() []exhibitorPayload {
	return []exhibitorPayload{
		{Name: "Sítio Boa Esperança", Category: string(model.CategoryAgriculturaFamiliar), Products: "Hortaliças, mandioca, banana", City: "Porto Velho", BusinessVolume: 45000, Visitors: 320},
		{Name: "Laticínios Vale do Jamari", Category: string(model.CategoryAgroindustrias), Products: "Queijos, iogurtes, manteiga", City: "Ariquemes", BusinessVolume: 180000, Visitors: 450},
		{Name: "Piscicultura Rio Machado", Category: string(model.CategoryPsicultura), Products: "Tambaqui, pirarucu", City: "Ji-Paraná", BusinessVolume: 95000, Visitors: 280},
		{Name: "Casa da Farinha Dona Zilda", Category: string(model.CategoryMandiocultura), Products: "Farinha artesanal, tucupi, goma", City: "Ouro Preto do Oeste", BusinessVolume: 32000, Visitors: 510},
		{Name: "Apiário Flor do Cerrado", Category: string(model.CategoryApicultura), Products: "Mel, própolis, pólen", City: "Vilhena", BusinessVolume: 28000, Visitors: 230},
		{Name: "Café Robusta Amazônico", Category: string(model.CategoryCafe), Products: "Café torrado, café em grão", City: "Cacoal", BusinessVolume: 220000, Visitors: 640},
		{Name: "Frigorífico Rondo Carnes", Category: string(model.CategoryCarne), Products: "Cortes bovinos, embutidos", City: "Rolim de Moura", BusinessVolume: 850000, Visitors: 390},
		{Name: "Ateliê Mãos da Floresta", Category: string(model.CategoryArtesanato), Products: "Cestaria, biojoias, cerâmica", City: "Jaru", BusinessVolume: 12000, Visitors: 470},
		{Name: "AgroMáquinas do Norte", Category: string(model.CategoryConcessionariasTratores), Products: "Tratores, implementos agrícolas", City: "Porto Velho", BusinessVolume: 1250000, Visitors: 180},
		{Name: "Banco da Amazônia", Category: string(model.CategoryBancosTradicionais), Products: "Crédito rural, financiamento", City: "Porto Velho", BusinessVolume: 2400000, Visitors: 520},
	}
}

func demoPhotos() []photoPayload {
	today := time.Now().Format("2006-01-02")
	return []photoPayload{
		{URL: "https://picsum.photos/seed/agrofair-abertura/800/600", Title: "Cerimônia de abertura", Category: "Evento", Date: today},
		{URL: "https://picsum.photos/seed/agrofair-pavilhao/800/600", Title: "Pavilhão da agricultura familiar", Category: "Expositores", Date: today},
		{URL: "https://picsum.photos/seed/agrofair-leilao/800/600", Title: "Leilão de gado", Category: "Negócios", Date: today},
		{URL: "https://picsum.photos/seed/agrofair-maquinas/800/600", Title: "Demonstração de máquinas", Category: "Expositores", Date: today},
	}
}

// Run posts the demo records and photos to the portal at cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("seed")
	client := &http.Client{Timeout: cfg.Timeout}

	for _, ex := range demoExhibitors() {
		if err := post(ctx, client, cfg.BaseURL+"/exhibitors", ex); err != nil {
			return fmt.Errorf("seeding exhibitor %q: %w", ex.Name, err)
		}
		log.Info(ctx, "seeded exhibitor",
			logger.String("name", ex.Name),
			logger.String("city", ex.City),
		)
	}

	if cfg.WithPhotos {
		for _, p := range demoPhotos() {
			if err := post(ctx, client, cfg.BaseURL+"/photos", p); err != nil {
				return fmt.Errorf("seeding photo %q: %w", p.Title, err)
			}
			log.Info(ctx, "seeded photo", logger.String("title", p.Title))
		}
	}

	return nil
}

func post(ctx context.Context, client *http.Client, url string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}
