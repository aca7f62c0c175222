package application

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/davicafu/alpesui/internal/view/domain"
)

type feedCardView struct {
	ID        string
	HTML      template.HTML
	Resaltada bool
}

type pageView struct {
	Estado      template.HTML
	Paneles     template.HTML
	Formulario  template.HTML
	Feed        []feedCardView
	ResaltadoMs int64
}

// PageService compone la página completa de una sesión.
type PageService struct {
	tpl    *Templates
	panels *PanelService
	feed   *Feed
	status *StatusBoard
	store  domain.ViewStore
	now    func() time.Time
}

func NewPageService(tpl *Templates, panels *PanelService, feed *Feed, status *StatusBoard, store domain.ViewStore) *PageService {
	return &PageService{tpl: tpl, panels: panels, feed: feed, status: status, store: store, now: time.Now}
}

func (s *PageService) Render(ctx context.Context, session string) (string, error) {
	state, err := s.panels.State(ctx, session)
	if err != nil {
		return "", err
	}
	panels, err := s.panels.Render(ctx, session, state)
	if err != nil {
		return "", err
	}
	status, err := s.status.Render()
	if err != nil {
		return "", err
	}
	form, _, err := s.store.Get(ctx, domain.ContainerKey(session, domain.ContainerFormulario))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", domain.ContainerFormulario, err)
	}

	now := s.now()
	cards := s.feed.Snapshot()
	view := pageView{
		Estado:      template.HTML(status),
		Paneles:     template.HTML(panels),
		Formulario:  template.HTML(form),
		Feed:        make([]feedCardView, 0, len(cards)),
		ResaltadoMs: domain.HighlightWindow.Milliseconds(),
	}
	for _, c := range cards {
		view.Feed = append(view.Feed, feedCardView{ID: c.ID, HTML: template.HTML(c.HTML), Resaltada: c.Highlighted(now)})
	}
	return s.tpl.Render("pagina", view)
}
