package domain

// Nombres de operación, usados también como etiqueta de métricas.
const (
	OpEventosSocio   = "eventosSocio"
	OpPagoInfo       = "pagoInfo"
	OpReferidosSocio = "referidosSocio"
	OpCrearEvento    = "crearEvento"
)

const EventosSocioQuery = `
query ConsultarEventosSocio($idSocio: String!) {
    eventosSocio(idSocio: $idSocio) {
        idSocio
        eventos {
            idEvento
            idReferido
            idSocio
            monto
            fechaEvento
            estadoEvento
            ganancia
            tipoEvento
        }
    }
}
`

const PagoInfoQuery = `
query ConsultarPagoInfo($idPago: String!) {
    pagoInfo(idPago: $idPago) {
        idTransaction
        idPago
        idSocio
        pago
        estadoPago
        fechaPago
    }
}
`

const ReferidosSocioQuery = `
query ConsultarReferidosSocio($idSocio: String!) {
    referidosSocio(idSocio: $idSocio) {
        idSocio
        referidos {
            idEvento
            idReferido
            tipoEvento
            monto
            estadoEvento
            fechaEvento
        }
    }
}
`

const CrearEventoMutation = `
mutation CrearEvento($tipoEvento: String!, $idReferido: String!, $idSocio: String!, $monto: Float!, $estadoEvento: String!) {
    crearEvento(
        tipoEvento: $tipoEvento,
        idReferido: $idReferido,
        idSocio: $idSocio,
        monto: $monto,
        estadoEvento: $estadoEvento
    ) {
        mensaje
        codigo
    }
}
`
