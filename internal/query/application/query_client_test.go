package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/query/domain"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Execute(ctx context.Context, req domain.Request) (*domain.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*domain.Response)
	return resp, args.Error(1)
}

func TestQueryClient_OperationsUseFixedDocuments(t *testing.T) {
	tests := []struct {
		name  string
		call  func(c *QueryClient) (*domain.Response, error)
		query string
		vars  map[string]any
	}{
		{
			name:  "eventos",
			call:  func(c *QueryClient) (*domain.Response, error) { return c.ConsultarEventosSocio(context.Background(), "S1") },
			query: domain.EventosSocioQuery,
			vars:  map[string]any{"idSocio": "S1"},
		},
		{
			name:  "pagos",
			call:  func(c *QueryClient) (*domain.Response, error) { return c.ConsultarPagoInfo(context.Background(), "P1") },
			query: domain.PagoInfoQuery,
			vars:  map[string]any{"idPago": "P1"},
		},
		{
			name:  "referidos",
			call:  func(c *QueryClient) (*domain.Response, error) { return c.ConsultarReferidosSocio(context.Background(), "S1") },
			query: domain.ReferidosSocioQuery,
			vars:  map[string]any{"idSocio": "S1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			expected := &domain.Response{Data: json.RawMessage(`{}`)}
			transport.On("Execute", mock.Anything, domain.Request{Query: tt.query, Variables: tt.vars}).Return(expected, nil).Once()

			resp, err := tt.call(NewQueryClient(transport, zap.NewNop()))

			require.NoError(t, err)
			assert.Same(t, expected, resp)
			transport.AssertExpectations(t)
		})
	}
}

func TestQueryClient_CrearEventoVariables(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Execute", mock.Anything, domain.Request{
		Query: domain.CrearEventoMutation,
		Variables: map[string]any{
			"tipoEvento":   "REFERIDO",
			"estadoEvento": "PENDIENTE",
			"monto":        100.5,
			"idSocio":      "S1",
			"idReferido":   "R1",
		},
	}).Return(&domain.Response{Data: json.RawMessage(`{"crearEvento":{"mensaje":"Procesando Mensaje","codigo":203}}`)}, nil).Once()

	c := NewQueryClient(transport, zap.NewNop())
	resp, err := c.CrearEvento(context.Background(), domain.CrearEventoInput{
		TipoEvento: "REFERIDO", EstadoEvento: "PENDIENTE", Monto: 100.5, IDSocio: "S1", IDReferido: "R1",
	})

	require.NoError(t, err)
	var out domain.EventoRespuesta
	require.NoError(t, resp.DecodeAt(&out, "crearEvento"))
	assert.Equal(t, 203, out.Codigo)
	transport.AssertExpectations(t)
}

func TestQueryClient_ErrorsArrayBecomesDomainError(t *testing.T) {
	transport := new(MockTransport)
	body := &domain.Response{Errors: []domain.GraphQLError{{Message: "Socio no existe"}}}
	transport.On("Execute", mock.Anything, mock.Anything).Return(body, nil).Once()

	resp, err := NewQueryClient(transport, zap.NewNop()).ConsultarEventosSocio(context.Background(), "S404")

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "Socio no existe", derr.FirstMessage())
	// el cuerpo se devuelve igualmente para que el renderer lo inspeccione
	assert.Same(t, body, resp)
	assert.False(t, IsTransport(err))
}

func TestQueryClient_TransportErrorPropagates(t *testing.T) {
	transport := new(MockTransport)
	transport.On("Execute", mock.Anything, mock.Anything).Return(nil, &domain.TransportError{StatusCode: 503}).Once()

	resp, err := NewQueryClient(transport, zap.NewNop()).ConsultarPagoInfo(context.Background(), "P1")

	assert.Nil(t, resp)
	assert.True(t, IsTransport(err))
}
