package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Event es un mensaje text/event-stream ya ensamblado.
type Event struct {
	ID    string
	Type  string // vacío equivale a "message"
	Data  string // líneas data: unidas con "\n"
	Retry time.Duration
}

// Reader lee eventos de un cuerpo text/event-stream.
// Comentarios (":") y campos desconocidos se ignoran; acepta \n y \r\n.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Next devuelve el siguiente evento con datos. Devuelve io.EOF cuando el
// stream termina limpio; un evento sin línea en blanco final se entrega igual.
func (r *Reader) Next() (Event, error) {
	var (
		evt     Event
		data    []string
		hasData bool
	)

	for {
		line, err := r.br.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF && hasData {
				evt.Data = strings.Join(data, "\n")
				return evt, nil
			}
			return Event{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if hasData {
				evt.Data = strings.Join(data, "\n")
				return evt, nil
			}
			// bloque sin datos: se descarta, pero retry/id ya aplicados se conservan
			evt.Type = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			data = append(data, value)
			hasData = true
		case "event":
			evt.Type = value
		case "id":
			evt.ID = value
		case "retry":
			if ms, convErr := strconv.Atoi(value); convErr == nil && ms >= 0 {
				evt.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}
