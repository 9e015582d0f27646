package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/utils/format"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer рендерит HTML-страницы консоли.
// Визуальное оформление вне зоны ответственности консоли,
// шаблоны намеренно минимальные.
type Renderer struct {
	templates *template.Template
}

// NewRenderer парсит встроенные шаблоны
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"currency":    format.Currency,
		"number":      format.Number,
		"datetime":    format.DateTime,
		"truncate":    format.Truncate,
		"upper":       strings.ToUpper,
		"statusLabel": domain.StatusLabel,
		"methodLabel": domain.MethodLabel,
	}

	templates, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: failed to parse templates: %w", err)
	}

	return &Renderer{templates: templates}, nil
}

// Render выполняет шаблон по имени файла
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("web: failed to render %q: %w", name, err)
	}
	return nil
}
