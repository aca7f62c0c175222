package domain

// IDs de contenedor: son el contrato entre los renderers y el marcado de la página.
const (
	ContainerFeed       = "eventos-tiempo-real"
	ContainerStatus     = "sse-status"
	ContainerEventos    = "resultado-eventos"
	ContainerReferidos  = "resultado-referidos"
	ContainerPagos      = "resultado-pagos"
	ContainerFormulario = "mensaje-formulario"

	ContainerPanelEventos   = "panel-eventos"
	ContainerPanelReferidos = "panel-referidos"
	ContainerPanelPagos     = "panel-pagos"
)
