package application

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	qdomain "github.com/davicafu/alpesui/internal/query/domain"
)

type MockQueries struct {
	mock.Mock
}

func (m *MockQueries) response(args mock.Arguments) (*qdomain.Response, error) {
	resp, _ := args.Get(0).(*qdomain.Response)
	return resp, args.Error(1)
}

func (m *MockQueries) ConsultarEventosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error) {
	return m.response(m.Called(ctx, idSocio))
}

func (m *MockQueries) ConsultarPagoInfo(ctx context.Context, idPago string) (*qdomain.Response, error) {
	return m.response(m.Called(ctx, idPago))
}

func (m *MockQueries) ConsultarReferidosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error) {
	return m.response(m.Called(ctx, idSocio))
}

func (m *MockQueries) CrearEvento(ctx context.Context, in qdomain.CrearEventoInput) (*qdomain.Response, error) {
	return m.response(m.Called(ctx, in))
}

// memStore es un ViewStore en memoria para los tests.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, val string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
	return nil
}
