package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Options configures one rasterization.
type Options struct {
	PageWidthPX  int     // fixed layout width, defaults to PageWidthPX
	PageHeightPX int     // 0 lets the rasterizer size the page to the content
	MarginPX     int
	ImageQuality float64 // JPEG quality for embedded raster content, 0..1
	Filename     string  // suggested artifact filename
}

// DefaultOptions returns the page configuration exports have always
// used: full-width A4-ish page, no margin, high JPEG quality.
func DefaultOptions(filename string) Options {
	return Options{
		PageWidthPX:  PageWidthPX,
		PageHeightPX: 0,
		MarginPX:     0,
		ImageQuality: 0.95,
		Filename:     filename,
	}
}

// Rasterizer converts a laid-out document into a downloadable artifact.
// Implementations wrap an external rendering service; Available lets
// the exporter probe the capability before flipping the view.
type Rasterizer interface {
	Available(ctx context.Context) bool
	Render(ctx context.Context, doc Document, opts Options) ([]byte, error)
}

// HTTPRasterizer drives an external HTML-to-PDF rendering service.
type HTTPRasterizer struct {
	url    string
	client *http.Client
}

// NewHTTPRasterizer creates a rasterizer client targeting url.
func NewHTTPRasterizer(url string) *HTTPRasterizer {
	return &HTTPRasterizer{
		url:    url,
		client: &http.Client{},
	}
}

// Available probes the service health endpoint.
func (r *HTTPRasterizer) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url+"/health", nil)
	if err != nil {
		return false
	}
	res, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

// Render posts the document and page options and returns the PDF bytes.
func (r *HTTPRasterizer) Render(ctx context.Context, doc Document, opts Options) ([]byte, error) {
	if len(doc.HTML) == 0 {
		return nil, ErrLayoutTargetMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/render", bytes.NewReader(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("X-Page-Width", strconv.Itoa(opts.PageWidthPX))
	req.Header.Set("X-Page-Height", strconv.Itoa(opts.PageHeightPX))
	req.Header.Set("X-Margin", strconv.Itoa(opts.MarginPX))
	req.Header.Set("X-Image-Quality", strconv.FormatFloat(opts.ImageQuality, 'f', 2, 64))

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRasterizationFailed, res.StatusCode)
	}

	artifact, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizationFailed, err)
	}
	if len(artifact) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", ErrRasterizationFailed)
	}
	return artifact, nil
}

// UnavailableRasterizer is the explicit no-capability variant wired
// when no rendering service is configured. It replaces a run-time
// existence probe of an ambient global.
type UnavailableRasterizer struct{}

// NewUnavailableRasterizer creates the no-capability variant.
func NewUnavailableRasterizer() *UnavailableRasterizer {
	return &UnavailableRasterizer{}
}

// Available always reports false.
func (r *UnavailableRasterizer) Available(ctx context.Context) bool { return false }

// Render always fails with ErrRasterizerUnavailable.
func (r *UnavailableRasterizer) Render(ctx context.Context, doc Document, opts Options) ([]byte, error) {
	return nil, ErrRasterizerUnavailable
}
