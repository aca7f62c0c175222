package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	qdomain "github.com/davicafu/alpesui/internal/query/domain"
	"github.com/davicafu/alpesui/internal/view/domain"
)

// Mensajes del formulario de creación.
const (
	MsgEventoCreado   = "Evento creado exitosamente"
	MsgErrorCreando   = "Error creando evento"
	MsgCampoRequerido = "Por favor complete todos los campos"
	MsgMontoInvalido  = "El monto debe ser numérico"
)

// Nombres de los campos del formulario tal como los envía el navegador.
const (
	FormTipoEvento   = "tipo_evento"
	FormEstadoEvento = "estado_evento"
	FormMonto        = "monto"
	FormIDSocio      = "idSocio"
	FormIDReferido   = "idReferido"
)

// ParseCrearEvento traduce el formulario a las variables de la mutación:
// renombra las claves snake_case y convierte el monto a número.
func ParseCrearEvento(form url.Values) (qdomain.CrearEventoInput, error) {
	get := func(key string) string { return strings.TrimSpace(form.Get(key)) }

	for _, key := range []string{FormTipoEvento, FormEstadoEvento, FormMonto, FormIDSocio, FormIDReferido} {
		if get(key) == "" {
			return qdomain.CrearEventoInput{}, &qdomain.ValidationError{Field: key, Reason: "obligatorio"}
		}
	}

	monto, err := parseMonto(get(FormMonto))
	if err != nil {
		return qdomain.CrearEventoInput{}, &qdomain.ValidationError{Field: FormMonto, Reason: "no numérico"}
	}

	return qdomain.CrearEventoInput{
		TipoEvento:   get(FormTipoEvento),
		EstadoEvento: get(FormEstadoEvento),
		Monto:        monto,
		IDSocio:      get(FormIDSocio),
		IDReferido:   get(FormIDReferido),
	}, nil
}

// parseMonto acepta solo decimales finitos: ParseFloat también admite
// "NaN", "inf" y literales hexadecimales, que la mutación no puede enviar.
func parseMonto(raw string) (float64, error) {
	if strings.ContainsAny(raw, "xX") {
		return 0, fmt.Errorf("monto %q: formato hexadecimal", raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("monto %q: no finito", raw)
	}
	return v, nil
}

// FormResult es el banner del formulario y si el navegador debe vaciarlo.
type FormResult struct {
	domain.Fragment
	Reset bool
}

// FormService procesa el formulario de creación de eventos.
type FormService struct {
	queries Queries
	tpl     *Templates
	store   domain.ViewStore
	log     *zap.Logger
}

func NewFormService(queries Queries, tpl *Templates, store domain.ViewStore, log *zap.Logger) *FormService {
	return &FormService{queries: queries, tpl: tpl, store: store, log: log}
}

// Submit valida y envía la mutación. Si la validación falla no hay petición.
func (s *FormService) Submit(ctx context.Context, session string, form url.Values) (FormResult, error) {
	in, err := ParseCrearEvento(form)
	if err != nil {
		msg := MsgCampoRequerido
		var verr *qdomain.ValidationError
		if errors.As(err, &verr) && verr.Field == FormMonto && form.Get(FormMonto) != "" {
			msg = MsgMontoInvalido
		}
		return s.write(ctx, session, s.tpl.Banner("warning", msg), false)
	}

	resp, err := s.queries.CrearEvento(ctx, in)
	if err != nil || resp.HasErrors() {
		s.log.Error("❌ Error creando evento", zap.String("idSocio", in.IDSocio), zap.Error(err))
		return s.write(ctx, session, s.tpl.Banner("danger", MsgErrorCreando), false)
	}

	var out qdomain.EventoRespuesta
	if derr := resp.DecodeAt(&out, qdomain.OpCrearEvento); derr == nil && out.Mensaje != "" {
		s.log.Info("✅ Evento creado", zap.String("mensaje", out.Mensaje), zap.Int("codigo", out.Codigo))
	}
	return s.write(ctx, session, s.tpl.Banner("success", MsgEventoCreado), true)
}

func (s *FormService) write(ctx context.Context, session, html string, reset bool) (FormResult, error) {
	if err := s.store.Set(ctx, domain.ContainerKey(session, domain.ContainerFormulario), html); err != nil {
		return FormResult{}, fmt.Errorf("store %s: %w", domain.ContainerFormulario, err)
	}
	return FormResult{Fragment: domain.Fragment{Container: domain.ContainerFormulario, HTML: html}, Reset: reset}, nil
}
