package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Lookup(t *testing.T) {
	resp := &Response{Data: json.RawMessage(`{"eventosSocio": {"idSocio": "S1", "eventos": [], "nulo": null}}`)}

	raw, ok := resp.Lookup("eventosSocio", "eventos")
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))

	_, ok = resp.Lookup("eventosSocio", "nulo")
	assert.False(t, ok)

	_, ok = resp.Lookup("eventosSocio", "eventos", "idEvento")
	assert.False(t, ok)

	_, ok = resp.Lookup("pagoInfo")
	assert.False(t, ok)

	var nilResp *Response
	_, ok = nilResp.Lookup("x")
	assert.False(t, ok)
}

func TestResponse_DecodeAt(t *testing.T) {
	resp := &Response{Data: json.RawMessage(`{"crearEvento": {"mensaje": "Procesando Mensaje", "codigo": 203}}`)}

	var out EventoRespuesta
	require.NoError(t, resp.DecodeAt(&out, "crearEvento"))
	assert.Equal(t, EventoRespuesta{Mensaje: "Procesando Mensaje", Codigo: 203}, out)

	assert.ErrorIs(t, resp.DecodeAt(&out, "otro"), ErrUnknownField)
}

func TestDomainError_FirstMessage(t *testing.T) {
	err := NewDomainError([]GraphQLError{{Message: "Socio no existe"}, {Message: "otro"}})

	assert.Equal(t, "Socio no existe", err.FirstMessage())
	assert.Contains(t, err.Error(), `"message":"Socio no existe"`)

	var target *DomainError
	assert.True(t, errors.As(error(err), &target))
}

func TestValidationError_IsErrValidation(t *testing.T) {
	var err error = &ValidationError{Field: "monto", Reason: "no es numérico"}
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, `campo "monto": no es numérico`, err.Error())
}

func TestCrearEventoInput_Variables(t *testing.T) {
	in := CrearEventoInput{TipoEvento: "REFERIDO", IDReferido: "R1", IDSocio: "S1", Monto: 100.5, EstadoEvento: "PENDIENTE"}

	assert.Equal(t, map[string]any{
		"tipoEvento":   "REFERIDO",
		"idReferido":   "R1",
		"idSocio":      "S1",
		"monto":        100.5,
		"estadoEvento": "PENDIENTE",
	}, in.Variables())
}
