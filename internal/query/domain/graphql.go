package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnknownField = errors.New("unknown response path")
)

// Request es el sobre {query, variables} que se envía por POST.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// GraphQLError es un elemento de la lista "errors" de la respuesta.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Response es el cuerpo JSON tal cual lo devuelve el endpoint.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// HasErrors indica si la respuesta trae errores de aplicación.
func (r *Response) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// Lookup navega data.<path...> y devuelve el JSON encontrado.
// Devuelve false si falta algún tramo o el valor final es null.
func (r *Response) Lookup(path ...string) (json.RawMessage, bool) {
	if r == nil || len(r.Data) == 0 {
		return nil, false
	}
	current := r.Data
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(current, &obj); err != nil || obj == nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		current = next
	}
	if bytes.Equal(bytes.TrimSpace(current), []byte("null")) {
		return nil, false
	}
	return current, true
}

// DecodeAt decodifica data.<path...> en dest.
func (r *Response) DecodeAt(dest any, path ...string) error {
	raw, ok := r.Lookup(path...)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownField, path)
	}
	return json.Unmarshal(raw, dest)
}

// TransportError cubre fallos de red y respuestas HTTP no 2xx.
type TransportError struct {
	StatusCode int // 0 si no hubo respuesta
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graphql transport: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("graphql transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DomainError es una respuesta con lista "errors" no vacía.
type DomainError struct {
	Errors     []GraphQLError
	Serialized string
}

func NewDomainError(errs []GraphQLError) *DomainError {
	serialized, err := json.Marshal(errs)
	if err != nil {
		serialized = []byte(fmt.Sprintf("%v", errs))
	}
	return &DomainError{Errors: errs, Serialized: string(serialized)}
}

func (e *DomainError) Error() string {
	return "graphql errors: " + e.Serialized
}

// FirstMessage devuelve el texto del primer error, que es el que se muestra.
func (e *DomainError) FirstMessage() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}

// ValidationError es un campo obligatorio vacío o inválido en un formulario.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
