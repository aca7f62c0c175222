package application

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	qdomain "github.com/davicafu/alpesui/internal/query/domain"
	"github.com/davicafu/alpesui/internal/view/domain"
)

//go:embed sections.yaml
var sectionsYAML []byte

var (
	ErrUnknownSection   = errors.New("unknown section")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Mensajes fijos de los banners de consulta.
const (
	MsgConnectionError = "Error de conexión"
	MsgMalformedRecord = "Respuesta con formato inesperado"
)

// Field es un campo de la tarjeta de un registro.
type Field struct {
	Label  string `yaml:"etiqueta"`
	Key    string `yaml:"clave"`
	Format string `yaml:"formato"`
}

// Section describe una consulta y cómo pintar su resultado.
type Section struct {
	Name        string   `yaml:"nombre"`
	Panel       string   `yaml:"panel"`
	PanelTitle  string   `yaml:"titulo_panel"`
	Operation   string   `yaml:"operacion"`
	Container   string   `yaml:"contenedor"`
	Param       string   `yaml:"parametro"`
	ParamLabel  string   `yaml:"etiqueta"`
	Path        []string `yaml:"ruta"`
	Single      bool     `yaml:"unico"`
	Title       string   `yaml:"titulo"`
	StatusField string   `yaml:"estado"`
	NotFound    string   `yaml:"no_encontrado"`
	ErrorText   string   `yaml:"error"`
	Fields      []Field  `yaml:"campos"`
}

// SectionTable es la tabla completa, en el orden del fichero.
type SectionTable struct {
	Sections []Section `yaml:"secciones"`
}

// LoadSectionTable lee la tabla embebida.
func LoadSectionTable() (*SectionTable, error) {
	return ParseSectionTable(sectionsYAML)
}

func ParseSectionTable(data []byte) (*SectionTable, error) {
	var table SectionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse section table: %w", err)
	}
	for _, s := range table.Sections {
		if s.Name == "" || s.Container == "" || len(s.Path) == 0 {
			return nil, fmt.Errorf("parse section table: incomplete section %q", s.Name)
		}
	}
	return &table, nil
}

// Lookup busca una sección por nombre.
func (t *SectionTable) Lookup(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ForPanel devuelve la sección que se consulta desde un panel.
func (t *SectionTable) ForPanel(p domain.Panel) (Section, bool) {
	for _, s := range t.Sections {
		if s.Panel == string(p) {
			return s, true
		}
	}
	return Section{}, false
}

// ---------- Render genérico ----------

type fieldView struct {
	Etiqueta string
	Valor    string
}

type cardView struct {
	Estado string
	Badge  string
	Campos []fieldView
}

type sectionView struct {
	Titulo   string
	Tarjetas []cardView
}

// sectionRenderer pinta una respuesta sin errores en el contenedor de la sección.
type sectionRenderer func(tpl *Templates, sec Section, resp *qdomain.Response) (string, error)

// recordRenderer construye el renderer para un tipo de registro. T valida
// la forma del registro; el badge y los campos se leen por clave según la tabla.
func recordRenderer[T qdomain.Record]() sectionRenderer {
	return func(tpl *Templates, sec Section, resp *qdomain.Response) (string, error) {
		raw, ok := resp.Lookup(sec.Path...)
		if !ok {
			return tpl.Render("vacio", sec.NotFound)
		}

		items := []json.RawMessage{raw}
		if !sec.Single {
			items = nil
			if err := json.Unmarshal(raw, &items); err != nil {
				return "", fmt.Errorf("%s: %w", sec.Name, err)
			}
		}
		if len(items) == 0 {
			return tpl.Render("vacio", sec.NotFound)
		}

		view := sectionView{Titulo: sec.Title}
		for _, item := range items {
			var rec T
			if err := json.Unmarshal(item, &rec); err != nil {
				return "", fmt.Errorf("%s: %w", sec.Name, err)
			}
			var values map[string]any
			if err := json.Unmarshal(item, &values); err != nil {
				return "", fmt.Errorf("%s: %w", sec.Name, err)
			}

			status := statusOf(sec, values, rec)
			card := cardView{Estado: status, Badge: domain.BadgeClass(status)}
			for _, f := range sec.Fields {
				card.Campos = append(card.Campos, fieldView{Etiqueta: f.Label, Valor: formatField(f.Format, values[f.Key])})
			}
			view.Tarjetas = append(view.Tarjetas, card)
		}
		return tpl.Render("seccion", view)
	}
}

// statusOf lee el estado de la clave configurada en la sección; sin clave
// se usa el estado propio del registro.
func statusOf(sec Section, values map[string]any, rec qdomain.Record) string {
	if sec.StatusField == "" {
		return rec.Status()
	}
	switch v := values[sec.StatusField].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatField(format string, v any) string {
	switch format {
	case "dinero":
		return formatAmount(v)
	case "fecha":
		return Fecha(v)
	}
	if v == nil {
		return "N/A"
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return fmt.Sprint(v)
}

// ---------- Casos de uso ----------

// Queries es el cliente GraphQL que usan las secciones y el formulario.
type Queries interface {
	ConsultarEventosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error)
	ConsultarPagoInfo(ctx context.Context, idPago string) (*qdomain.Response, error)
	ConsultarReferidosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error)
	CrearEvento(ctx context.Context, in qdomain.CrearEventoInput) (*qdomain.Response, error)
}

type fetchFunc func(ctx context.Context, arg string) (*qdomain.Response, error)

type binding struct {
	section Section
	fetch   fetchFunc
	render  sectionRenderer
}

// SectionService ejecuta la consulta de una sección y reemplaza el
// contenido de su contenedor con el resultado.
type SectionService struct {
	table    *SectionTable
	bindings map[string]binding
	tpl      *Templates
	store    domain.ViewStore
	log      *zap.Logger
}

func NewSectionService(table *SectionTable, queries Queries, tpl *Templates, store domain.ViewStore, log *zap.Logger) (*SectionService, error) {
	s := &SectionService{
		table:    table,
		bindings: make(map[string]binding, len(table.Sections)),
		tpl:      tpl,
		store:    store,
		log:      log,
	}

	for _, sec := range table.Sections {
		var b binding
		switch sec.Operation {
		case qdomain.OpEventosSocio:
			b = binding{fetch: queries.ConsultarEventosSocio, render: recordRenderer[qdomain.EventoRecord]()}
		case qdomain.OpReferidosSocio:
			b = binding{fetch: queries.ConsultarReferidosSocio, render: recordRenderer[qdomain.ReferidoRecord]()}
		case qdomain.OpPagoInfo:
			b = binding{fetch: queries.ConsultarPagoInfo, render: recordRenderer[qdomain.PagoRecord]()}
		default:
			return nil, fmt.Errorf("%w: %q en sección %q", ErrUnknownOperation, sec.Operation, sec.Name)
		}
		b.section = sec
		s.bindings[sec.Name] = b
	}
	return s, nil
}

// Table devuelve la tabla con la que se construyó el servicio.
func (s *SectionService) Table() *SectionTable {
	return s.table
}

// Query valida el parámetro, consulta y pinta. Un parámetro vacío no envía
// petición. Los errores de la respuesta se revisan antes que "data".
func (s *SectionService) Query(ctx context.Context, session, name, arg string) (domain.Fragment, error) {
	b, ok := s.bindings[name]
	if !ok {
		return domain.Fragment{}, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	sec := b.section

	arg = strings.TrimSpace(arg)
	if arg == "" {
		verr := &qdomain.ValidationError{Field: sec.Param, Reason: "obligatorio"}
		s.log.Debug("Consulta sin parámetro", zap.String("section", name), zap.Error(verr))
		return s.write(ctx, session, sec.Container, s.tpl.Banner("warning", fmt.Sprintf("Por favor ingrese %s", sec.ParamLabel)))
	}

	resp, err := b.fetch(ctx, arg)
	html, rerr := s.renderResult(b, resp, err)
	if rerr != nil {
		return domain.Fragment{}, rerr
	}
	return s.write(ctx, session, sec.Container, html)
}

func (s *SectionService) renderResult(b binding, resp *qdomain.Response, err error) (string, error) {
	sec := b.section

	var derr *qdomain.DomainError
	switch {
	case resp.HasErrors():
		return s.tpl.Banner("danger", fmt.Sprintf("%s: %s", sec.ErrorText, qdomain.NewDomainError(resp.Errors).FirstMessage())), nil
	case errors.As(err, &derr):
		return s.tpl.Banner("danger", fmt.Sprintf("%s: %s", sec.ErrorText, derr.FirstMessage())), nil
	case err != nil:
		return s.tpl.Banner("danger", MsgConnectionError), nil
	}

	html, rerr := b.render(s.tpl, sec, resp)
	if rerr != nil {
		s.log.Warn("⚠️ Registro con formato inesperado", zap.String("section", sec.Name), zap.Error(rerr))
		return s.tpl.Banner("danger", fmt.Sprintf("%s: %s", sec.ErrorText, MsgMalformedRecord)), nil
	}
	return html, nil
}

func (s *SectionService) write(ctx context.Context, session, container, html string) (domain.Fragment, error) {
	if err := s.store.Set(ctx, domain.ContainerKey(session, container), html); err != nil {
		return domain.Fragment{}, fmt.Errorf("store %s: %w", container, err)
	}
	return domain.Fragment{Container: container, HTML: html}, nil
}
