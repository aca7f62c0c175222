package application

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// FechaLayout es el formato con el que se muestran las fechas en las tarjetas.
const FechaLayout = "02/01/2006 15:04:05"

var printer = message.NewPrinter(language.English)

// Dinero formatea un importe como "$1,234.50".
func Dinero(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Fecha acepta time.Time o el texto que devuelve el BFF. Si el texto no es
// una fecha reconocible se muestra tal cual.
func Fecha(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(FechaLayout)
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Format(FechaLayout)
			}
		}
		return t
	case nil:
		return "N/A"
	}
	return fmt.Sprint(v)
}

// Templates agrupa las plantillas de página y fragmentos.
type Templates struct {
	tpl *template.Template
}

func NewTemplates() (*Templates, error) {
	tpl, err := template.New("alpesui").Funcs(template.FuncMap{
		"dinero": Dinero,
		"fecha":  Fecha,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{tpl: tpl}, nil
}

// Render ejecuta la plantilla nombrada y devuelve el HTML.
func (t *Templates) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Banner pinta un aviso bootstrap (success, warning, danger).
func (t *Templates) Banner(class, msg string) string {
	html, err := t.Render("banner", struct{ Clase, Mensaje string }{class, msg})
	if err != nil {
		return template.HTMLEscapeString(msg)
	}
	return html
}

func formatAmount(v any) string {
	switch n := v.(type) {
	case float64:
		return Dinero(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return Dinero(f)
		}
		return n
	case nil:
		return Dinero(0)
	}
	return fmt.Sprint(v)
}
