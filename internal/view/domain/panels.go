package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownPanel = errors.New("unknown panel")

// Panel identifica uno de los tres paneles de consulta.
type Panel string

const (
	PanelEventos   Panel = "eventos"
	PanelReferidos Panel = "referidos"
	PanelPagos     Panel = "pagos"
)

// Panels en el orden en que aparecen en la página.
var Panels = []Panel{PanelEventos, PanelReferidos, PanelPagos}

func ParsePanel(s string) (Panel, error) {
	switch p := Panel(s); p {
	case PanelEventos, PanelReferidos, PanelPagos:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
}

// ContainerID devuelve el contenedor del panel.
func (p Panel) ContainerID() string {
	switch p {
	case PanelEventos:
		return ContainerPanelEventos
	case PanelReferidos:
		return ContainerPanelReferidos
	case PanelPagos:
		return ContainerPanelPagos
	}
	return ""
}

// PanelState es el estado del grupo de paneles: como mucho uno visible.
type PanelState string

const (
	AllHidden      PanelState = "ninguno"
	EventsShown    PanelState = "eventos"
	ReferralsShown PanelState = "referidos"
	PaymentsShown  PanelState = "pagos"
)

func (s PanelState) shown() Panel {
	switch s {
	case EventsShown:
		return PanelEventos
	case ReferralsShown:
		return PanelReferidos
	case PaymentsShown:
		return PanelPagos
	}
	return ""
}

// Visible indica si el panel está desplegado en este estado.
func (s PanelState) Visible(p Panel) bool {
	return p != "" && s.shown() == p
}

// Toggle aplica la acción de alternar un panel. Alternar el panel visible
// lo oculta; alternar otro lo muestra y oculta el anterior.
func Toggle(s PanelState, p Panel) PanelState {
	if s.Visible(p) {
		return AllHidden
	}
	switch p {
	case PanelEventos:
		return EventsShown
	case PanelReferidos:
		return ReferralsShown
	case PanelPagos:
		return PaymentsShown
	}
	return s
}

// ParsePanelState reconstruye un estado guardado. Cualquier valor
// desconocido equivale a todo oculto.
func ParsePanelState(s string) PanelState {
	switch st := PanelState(s); st {
	case EventsShown, ReferralsShown, PaymentsShown:
		return st
	}
	return AllHidden
}
