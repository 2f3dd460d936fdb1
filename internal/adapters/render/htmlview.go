package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"
	"sync"
	"time"
)

// PageWidthPX is the fixed document width, sized for an A4 portrait
// page at 96 DPI.
const PageWidthPX = 794

//go:embed templates/report.html
var templateFS embed.FS

// HTMLView renders the fixed-layout report document from one embedded
// template. The interactive presentation is the JSON API; this view
// only tracks which presentation is active.
type HTMLView struct {
	mu   sync.Mutex
	mode ViewMode
	tmpl *template.Template
}

// NewHTMLView parses the embedded report template.
func NewHTMLView() (*HTMLView, error) {
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"brl":      FormatBRL,
		"intPtBR":  FormatIntPtBR,
		"plusOne":  func(i int) int { return i + 1 },
		"isEven":   func(i int) bool { return i%2 == 0 },
		"dateLong": formatDateLong,
	}).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLView{
		mode: ModeInteractive,
		tmpl: tmpl,
	}, nil
}

// Mode reports the currently active presentation.
func (v *HTMLView) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// EnterDocumentMode flips to the document presentation and builds the
// full document tree. It returns only after template execution has
// completed, which is the settle signal the exporter waits on.
func (v *HTMLView) EnterDocumentMode(ctx context.Context, data ReportData) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	v.mu.Lock()
	v.mode = ModeDocument
	v.mu.Unlock()

	var buf bytes.Buffer
	if err := v.tmpl.Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrLayoutTargetMissing, err)
	}
	return Document{HTML: buf.Bytes(), WidthPX: PageWidthPX}, nil
}

// ExitDocumentMode restores the interactive presentation. Safe to call
// regardless of the current mode.
func (v *HTMLView) ExitDocumentMode() {
	v.mu.Lock()
	v.mode = ModeInteractive
	v.mu.Unlock()
}

var ptBRMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// formatDateLong renders t as a pt-BR long date, e.g. "27 de novembro de 2025".
func formatDateLong(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), ptBRMonths[t.Month()-1], t.Year())
}

// FormatBRL renders value as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(value float64) string {
	neg := value < 0
	cents := int64(math.Floor(math.Abs(value)*100 + 0.5))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}

// FormatIntPtBR renders an integer with pt-BR thousands separators.
func FormatIntPtBR(value int) string {
	digits := fmt.Sprintf("%d", value)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}
	if neg {
		return "-" + grouped.String()
	}
	return grouped.String()
}
