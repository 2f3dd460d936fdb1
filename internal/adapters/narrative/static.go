package narrative

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/agrofair/portal/internal/domain/model"
)

// Default static provider configuration constants.
const (
	defaultMinLatency = 1500 * time.Millisecond
	defaultMaxLatency = 2500 * time.Millisecond
	defaultRandomSeed = 42

	// highPerformanceVolume switches the summary to the stronger
	// phrasing once total volume crosses it.
	highPerformanceVolume = 1_000_000
)

// Option applies a configuration option to the StaticProvider.
type Option func(*StaticProvider)

// WithLatencyRange sets the simulated generation latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(p *StaticProvider) {
		if minLatency > 0 && maxLatency > minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithoutLatency disables the simulated latency entirely.
func WithoutLatency() Option {
	return func(p *StaticProvider) {
		p.minLatency = 0
		p.maxLatency = 0
	}
}

// StaticProvider implements Provider with canned text, keeping the
// service usable without a text-generation API key. The latency
// simulation preserves the "analyzing data" experience of the real
// integration.
type StaticProvider struct {
	minLatency time.Duration
	maxLatency time.Duration
	rng        *rand.Rand
}

// NewStaticProvider creates a static provider with configuration options.
func NewStaticProvider(opts ...Option) *StaticProvider {
	p := &StaticProvider{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible testing
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Generate returns the canned report, lightly conditioned on totals.
func (p *StaticProvider) Generate(ctx context.Context, _ []model.Exhibitor, totals Totals) (Report, error) {
	if p.maxLatency > p.minLatency {
		latency := p.minLatency + time.Duration(p.rng.Int63n(int64(p.maxLatency-p.minLatency)))
		select {
		case <-ctx.Done():
			return Report{}, fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(latency):
		}
	}

	performance := "Os indicadores apontam para um crescimento sustentável."
	if totals.TotalVolume > highPerformanceVolume {
		performance = "O volume de negócios superou as expectativas iniciais, demonstrando a força econômica do setor."
	}

	return Report{
		Summary: "A feira apresenta resultados expressivos, consolidando-se como o principal vetor de desenvolvimento " +
			"tecnológico para o campo na região. " + performance + " A diversidade de expositores, reunindo " +
			"representantes de vários setores do agronegócio, criou um ambiente propício para networking qualificado " +
			"e fechamento de contratos de longo prazo, validando as estratégias da secretaria para o fomento local.",
		Recommendations: []string{
			"Expandir a infraestrutura de conectividade no parque para suportar mais demonstrações de IoT e agricultura de precisão.",
			"Criar rodadas de negócios segmentadas por cultura (Soja, Café, Pecuária) para otimizar o tempo dos produtores e aumentar o ticket médio.",
			"Implementar um sistema de pré-credenciamento digital para capturar dados mais detalhados sobre o perfil de compra dos visitantes antes do evento.",
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}
