package application

import (
	"context"
	"fmt"
	"html/template"

	"github.com/davicafu/alpesui/internal/view/domain"
)

type panelView struct {
	Contenedor string
	Titulo     string
	Visible    bool
	Seccion    string
	Parametro  string
	Etiqueta   string
	Resultado  string
	Contenido  template.HTML
}

// PanelService guarda el estado de los paneles de cada sesión y pinta el
// grupo completo.
type PanelService struct {
	table *SectionTable
	tpl   *Templates
	store domain.ViewStore
}

func NewPanelService(table *SectionTable, tpl *Templates, store domain.ViewStore) *PanelService {
	return &PanelService{table: table, tpl: tpl, store: store}
}

// State devuelve el estado actual; una sesión nueva empieza con todo oculto.
func (s *PanelService) State(ctx context.Context, session string) (domain.PanelState, error) {
	val, ok, err := s.store.Get(ctx, domain.PanelsKey(session))
	if err != nil {
		return domain.AllHidden, fmt.Errorf("load panels: %w", err)
	}
	if !ok {
		return domain.AllHidden, nil
	}
	return domain.ParsePanelState(val), nil
}

// Toggle aplica la transición y guarda el nuevo estado.
// Leer y escribir no es atómico: con dos clics simultáneos gana el último.
func (s *PanelService) Toggle(ctx context.Context, session string, p domain.Panel) (domain.PanelState, error) {
	current, err := s.State(ctx, session)
	if err != nil {
		return current, err
	}
	next := domain.Toggle(current, p)
	if err := s.store.Set(ctx, domain.PanelsKey(session), string(next)); err != nil {
		return current, fmt.Errorf("save panels: %w", err)
	}
	return next, nil
}

// Render pinta los tres paneles para el estado dado, con el último
// resultado de cada sección.
func (s *PanelService) Render(ctx context.Context, session string, state domain.PanelState) (string, error) {
	views := make([]panelView, 0, len(domain.Panels))
	for _, p := range domain.Panels {
		sec, ok := s.table.ForPanel(p)
		if !ok {
			continue
		}
		content, _, err := s.store.Get(ctx, domain.ContainerKey(session, sec.Container))
		if err != nil {
			return "", fmt.Errorf("load %s: %w", sec.Container, err)
		}
		views = append(views, panelView{
			Contenedor: p.ContainerID(),
			Titulo:     sec.PanelTitle,
			Visible:    state.Visible(p),
			Seccion:    sec.Name,
			Parametro:  sec.Param,
			Etiqueta:   sec.ParamLabel,
			Resultado:  sec.Container,
			Contenido:  template.HTML(content),
		})
	}
	return s.tpl.Render("paneles", views)
}
