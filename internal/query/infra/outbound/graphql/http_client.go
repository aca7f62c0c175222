package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/query/domain"
)

// maxBody acota el tamaño de una respuesta GraphQL.
const maxBody = 8 << 20

// HTTPClient envía los documentos GraphQL al único endpoint POST del BFF.
type HTTPClient struct {
	client   *http.Client
	endpoint string
	log      *zap.Logger
}

func NewHTTPClient(client *http.Client, endpoint string, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{client: client, endpoint: endpoint, log: log}
}

// Execute hace el POST y devuelve el cuerpo parseado. Los errores de red y los
// status no 2xx vuelven como *domain.TransportError. No interpreta "errors":
// eso lo decide la capa de aplicación.
func (c *HTTPClient) Execute(ctx context.Context, req domain.Request) (*domain.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("GraphQL respondió con status no exitoso",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)),
		)
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("http %s", resp.Status)}
	}

	var out domain.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("decode graphql response: %w", err)}
	}
	return &out, nil
}
