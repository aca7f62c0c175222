package domain

// Registros que devuelve el BFF. Los nombres JSON son contrato con el
// esquema GraphQL, incluidas las mayúsculas intermedias.

// Record es cualquier registro que se pinta como tarjeta con badge de estado.
type Record interface {
	Status() string
}

// EventoRecord es un evento dentro de eventosSocio.eventos.
type EventoRecord struct {
	IDEvento     string  `json:"idEvento"`
	IDReferido   string  `json:"idReferido"`
	IDSocio      string  `json:"idSocio"`
	Monto        float64 `json:"monto"`
	FechaEvento  string  `json:"fechaEvento"`
	EstadoEvento string  `json:"estadoEvento"`
	Ganancia     float64 `json:"ganancia"`
	TipoEvento   string  `json:"tipoEvento"`
}

func (r EventoRecord) Status() string { return r.EstadoEvento }

// PagoRecord es la respuesta de pagoInfo.
type PagoRecord struct {
	IDTransaction string  `json:"idTransaction"`
	IDPago        string  `json:"idPago"`
	IDSocio       string  `json:"idSocio"`
	Pago          float64 `json:"pago"`
	EstadoPago    string  `json:"estadoPago"`
	FechaPago     string  `json:"fechaPago"`
}

func (r PagoRecord) Status() string { return r.EstadoPago }

// ReferidoRecord es un elemento de referidosSocio.referidos.
type ReferidoRecord struct {
	IDEvento     string  `json:"idEvento"`
	IDReferido   string  `json:"idReferido"`
	TipoEvento   string  `json:"tipoEvento"`
	Monto        float64 `json:"monto"`
	EstadoEvento string  `json:"estadoEvento"`
	FechaEvento  string  `json:"fechaEvento"`
}

func (r ReferidoRecord) Status() string { return r.EstadoEvento }

// CrearEventoInput son las variables de la mutación crearEvento.
type CrearEventoInput struct {
	TipoEvento   string  `json:"tipoEvento"`
	IDReferido   string  `json:"idReferido"`
	IDSocio      string  `json:"idSocio"`
	Monto        float64 `json:"monto"`
	EstadoEvento string  `json:"estadoEvento"`
}

// Variables convierte el input al mapa que viaja en el sobre GraphQL.
func (in CrearEventoInput) Variables() map[string]any {
	return map[string]any{
		"tipoEvento":   in.TipoEvento,
		"idReferido":   in.IDReferido,
		"idSocio":      in.IDSocio,
		"monto":        in.Monto,
		"estadoEvento": in.EstadoEvento,
	}
}

// EventoRespuesta es lo que devuelve crearEvento.
type EventoRespuesta struct {
	Mensaje string `json:"mensaje"`
	Codigo  int    `json:"codigo"`
}
