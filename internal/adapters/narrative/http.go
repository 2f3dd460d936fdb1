package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agrofair/portal/internal/domain/model"
)

// HTTPProvider calls an external text-generation service with a fixed
// JSON contract. The caller bounds each request through ctx.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider targeting url.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		client: &http.Client{},
	}
}

// generateRequest is the wire shape sent to the generation service.
type generateRequest struct {
	Exhibitors []exhibitorPayload `json:"exhibitors"`
	Totals     Totals             `json:"totals"`
}

type exhibitorPayload struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	City           string  `json:"city"`
	BusinessVolume float64 `json:"business_volume"`
	Visitors       int     `json:"visitors"`
}

type generateResponse struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Generate posts the records and totals and decodes the narrative.
func (p *HTTPProvider) Generate(ctx context.Context, records []model.Exhibitor, totals Totals) (Report, error) {
	payload := generateRequest{
		Exhibitors: make([]exhibitorPayload, 0, len(records)),
		Totals:     totals,
	}
	for _, rec := range records {
		payload.Exhibitors = append(payload.Exhibitors, exhibitorPayload{
			Name:           rec.Name,
			Category:       string(rec.Category),
			City:           rec.City,
			BusinessVolume: rec.BusinessVolume,
			Visitors:       rec.Visitors,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Report{}, fmt.Errorf("encode narrative request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Report{}, fmt.Errorf("build narrative request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("%w: status %d", ErrGenerationFailed, res.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return Report{}, fmt.Errorf("decode narrative response: %w", err)
	}
	if decoded.Summary == "" {
		return Report{}, fmt.Errorf("%w: empty summary", ErrGenerationFailed)
	}

	return Report{
		Summary:         decoded.Summary,
		Recommendations: decoded.Recommendations,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}
