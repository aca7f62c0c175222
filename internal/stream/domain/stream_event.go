package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tokens del protocolo del stream upstream.
const (
	// HeartbeatToken es el keep-alive que el BFF envía cuando no hay eventos.
	HeartbeatToken = "ping"
	// FramePrefix es el artefacto de doble framing SSE que llega dentro del payload.
	FramePrefix = "data: "
)

// Valores por defecto cuando un campo no viene en ningún nivel del payload.
const (
	DefaultTipoEvento = "Evento"
	DefaultText       = "N/A"
)

var ErrMalformedPayload = errors.New("malformed stream payload")

// StreamEvent es la notificación ya normalizada que se muestra en el feed.
type StreamEvent struct {
	TipoEvento  string    `json:"tipoEvento"`
	IDEvento    string    `json:"idEvento"`
	IDReferido  string    `json:"idReferido"`
	IDSocio     string    `json:"idSocio"`
	Monto       float64   `json:"monto"`
	FechaEvento time.Time `json:"fechaEvento"`
	Comando     string    `json:"comando"`
}

// IsHeartbeat indica si el payload es un keep-alive, con o sin prefijo de framing.
func IsHeartbeat(payload string) bool {
	return payload == HeartbeatToken || StripFramePrefix(payload) == HeartbeatToken
}

// StripFramePrefix quita un único prefijo "data: " al inicio del payload.
func StripFramePrefix(payload string) string {
	return strings.TrimPrefix(payload, FramePrefix)
}

// ParsePayload limpia el prefijo de framing y decodifica el payload como objeto JSON.
func ParsePayload(payload string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(StripFramePrefix(payload)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedPayload)
	}
	// Nada más que espacios después del objeto
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedPayload)
	}
	return raw, nil
}

// DecodeStreamEvent normaliza un payload ya parseado.
//
// Precedencia por campo: data.<campo> → <campo> en el nivel superior → valor por defecto.
// Dentro de un mismo nivel, los alias se prueban en orden (id_evento antes que idEvento).
// Un campo cuenta como ausente si falta, es null, cadena vacía o cero numérico.
// comando solo se lee del nivel superior.
func DecodeStreamEvent(raw map[string]any, now time.Time) StreamEvent {
	tiers := []map[string]any{nested(raw), raw}

	evt := StreamEvent{
		TipoEvento:  DefaultTipoEvento,
		IDEvento:    DefaultText,
		IDReferido:  DefaultText,
		IDSocio:     DefaultText,
		FechaEvento: now,
		Comando:     DefaultText,
	}

	if v, ok := firstText(tiers, "tipoEvento"); ok {
		evt.TipoEvento = v
	}
	if v, ok := firstText(tiers, "id_evento", "idEvento"); ok {
		evt.IDEvento = v
	}
	if v, ok := firstText(tiers, "idReferido"); ok {
		evt.IDReferido = v
	}
	if v, ok := firstText(tiers, "idSocio"); ok {
		evt.IDSocio = v
	}
	if v, ok := firstAmount(tiers, "monto"); ok {
		evt.Monto = v
	}
	if v, ok := firstTime(tiers, "fechaEvento"); ok {
		evt.FechaEvento = v
	}
	if v, ok := textValue(raw["comando"]); ok {
		evt.Comando = v
	}

	return evt
}

// DecodePayload encadena ParsePayload y DecodeStreamEvent.
func DecodePayload(payload string, now time.Time) (StreamEvent, error) {
	raw, err := ParsePayload(payload)
	if err != nil {
		return StreamEvent{}, err
	}
	return DecodeStreamEvent(raw, now), nil
}

func nested(raw map[string]any) map[string]any {
	if data, ok := raw["data"].(map[string]any); ok {
		return data
	}
	return nil
}

func firstText(tiers []map[string]any, keys ...string) (string, bool) {
	for _, tier := range tiers {
		for _, k := range keys {
			if v, ok := textValue(tier[k]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func firstAmount(tiers []map[string]any, key string) (float64, bool) {
	for _, tier := range tiers {
		if v, ok := amountValue(tier[key]); ok {
			return v, true
		}
	}
	return 0, false
}

func firstTime(tiers []map[string]any, key string) (time.Time, bool) {
	for _, tier := range tiers {
		if v, ok := timeValue(tier[key]); ok {
			return v, true
		}
	}
	return time.Time{}, false
}

func textValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return "", false
		}
		return t.String(), true
	case bool:
		return "true", t
	default:
		return "", false
	}
}

func amountValue(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || f == 0 {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	case json.Number:
		// epoch en milisegundos, como los time_millis() del upstream
		if ms, err := t.Int64(); err == nil && ms != 0 {
			return time.UnixMilli(ms).UTC(), true
		}
	}
	return time.Time{}, false
}

// compactJSON se usa solo para logs: evita volcar payloads con saltos de línea.
func compactJSON(payload string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(payload)); err != nil {
		return payload
	}
	return buf.String()
}

// LogSafe devuelve el payload acotado y compacto para adjuntarlo a un log.
func LogSafe(payload string) string {
	const limit = 512
	s := compactJSON(payload)
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
