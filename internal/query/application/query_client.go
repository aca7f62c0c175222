package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/query/domain"
	"github.com/davicafu/alpesui/internal/shared/infra/platform/metrics"
)

// Transport ejecuta un documento GraphQL contra el endpoint.
type Transport interface {
	Execute(ctx context.Context, req domain.Request) (*domain.Response, error)
}

// QueryClient expone una función por operación del BFF. Devuelve siempre el
// cuerpo parseado cuando lo hay; si trae "errors" además devuelve
// *domain.DomainError. Presentar el error es cosa del llamador.
type QueryClient struct {
	transport Transport
	log       *zap.Logger
}

func NewQueryClient(transport Transport, log *zap.Logger) *QueryClient {
	return &QueryClient{transport: transport, log: log}
}

// ConsultarEventosSocio consulta eventosSocio(idSocio).
func (c *QueryClient) ConsultarEventosSocio(ctx context.Context, idSocio string) (*domain.Response, error) {
	return c.do(ctx, domain.OpEventosSocio, domain.EventosSocioQuery, map[string]any{"idSocio": idSocio})
}

// ConsultarPagoInfo consulta pagoInfo(idPago).
func (c *QueryClient) ConsultarPagoInfo(ctx context.Context, idPago string) (*domain.Response, error) {
	return c.do(ctx, domain.OpPagoInfo, domain.PagoInfoQuery, map[string]any{"idPago": idPago})
}

// ConsultarReferidosSocio consulta referidosSocio(idSocio).
func (c *QueryClient) ConsultarReferidosSocio(ctx context.Context, idSocio string) (*domain.Response, error) {
	return c.do(ctx, domain.OpReferidosSocio, domain.ReferidosSocioQuery, map[string]any{"idSocio": idSocio})
}

// CrearEvento envía la mutación crearEvento.
func (c *QueryClient) CrearEvento(ctx context.Context, in domain.CrearEventoInput) (*domain.Response, error) {
	return c.do(ctx, domain.OpCrearEvento, domain.CrearEventoMutation, in.Variables())
}

func (c *QueryClient) do(ctx context.Context, op, document string, vars map[string]any) (*domain.Response, error) {
	start := time.Now()
	resp, err := c.transport.Execute(ctx, domain.Request{Query: document, Variables: vars})
	metrics.GraphQLDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GraphQLRequests.WithLabelValues(op, "transport").Inc()
		c.log.Warn("⚠️ Falló la petición GraphQL", zap.String("operation", op), zap.Error(err))
		return nil, err
	}

	if resp.HasErrors() {
		derr := domain.NewDomainError(resp.Errors)
		metrics.GraphQLRequests.WithLabelValues(op, "domain").Inc()
		c.log.Info("GraphQL devolvió errores",
			zap.String("operation", op),
			zap.String("errors", derr.Serialized),
		)
		return resp, derr
	}

	metrics.GraphQLRequests.WithLabelValues(op, "ok").Inc()
	return resp, nil
}

// IsTransport indica si err es un fallo de red o de status HTTP.
func IsTransport(err error) bool {
	var terr *domain.TransportError
	return errors.As(err, &terr)
}
