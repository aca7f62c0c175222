package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	qdomain "github.com/davicafu/alpesui/internal/query/domain"
	"github.com/davicafu/alpesui/internal/shared/infra/platform/bus"
	"github.com/davicafu/alpesui/internal/shared/infra/platform/cache"
	"github.com/davicafu/alpesui/internal/view/application"
	"github.com/davicafu/alpesui/internal/view/domain"
	"github.com/davicafu/alpesui/internal/view/infra/outbound/store"
)

// fakeQueries responde con cuerpos fijos y registra las variables recibidas.
type fakeQueries struct {
	mu      sync.Mutex
	created []qdomain.CrearEventoInput
}

func (f *fakeQueries) ConsultarEventosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error) {
	return &qdomain.Response{Data: json.RawMessage(`{"eventosSocio": {"idSocio": "` + idSocio + `", "eventos": []}}`)}, nil
}

func (f *fakeQueries) ConsultarPagoInfo(ctx context.Context, idPago string) (*qdomain.Response, error) {
	return &qdomain.Response{Data: json.RawMessage(`{"pagoInfo": {"idPago": "` + idPago + `", "pago": 10, "estadoPago": "DESCONOCIDO"}}`)}, nil
}

func (f *fakeQueries) ConsultarReferidosSocio(ctx context.Context, idSocio string) (*qdomain.Response, error) {
	return &qdomain.Response{Errors: []qdomain.GraphQLError{{Message: "sin permisos"}}}, nil
}

func (f *fakeQueries) CrearEvento(ctx context.Context, in qdomain.CrearEventoInput) (*qdomain.Response, error) {
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	return &qdomain.Response{Data: json.RawMessage(`{"crearEvento": {"mensaje": "ok", "codigo": 201}}`)}, nil
}

type testApp struct {
	router  *gin.Engine
	hub     *bus.InMemoryHub
	queries *fakeQueries
}

func newTestApp(t *testing.T, heartbeat time.Duration) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := cache.NewInMemoryCache(time.Minute, time.Minute)
	t.Cleanup(mem.Stop)
	views := store.NewCacheViewStore(mem, time.Minute)

	table, err := application.LoadSectionTable()
	require.NoError(t, err)
	tpl, err := application.NewTemplates()
	require.NoError(t, err)

	log := zap.NewNop()
	hub := bus.NewInMemoryHub(nil)
	queries := &fakeQueries{}

	status := application.NewStatusBoard(hub, tpl, log)
	panels := application.NewPanelService(table, tpl, views)
	sections, err := application.NewSectionService(table, queries, tpl, views, log)
	require.NoError(t, err)
	forms := application.NewFormService(queries, tpl, views, log)
	pages := application.NewPageService(tpl, panels, application.NewFeed(), status, views)

	r := gin.New()
	RegisterUIRoutes(r, NewUIHandler(pages, panels, sections, forms, status, hub, heartbeat, log))
	return testApp{router: r, hub: hub, queries: queries}
}

func (a testApp) do(method, path, session string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// doMultipart envía el formulario como lo hace FormData en el navegador.
func (a testApp) doMultipart(t *testing.T, path, session string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestIndex_IssuesSessionCookie(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="eventos-tiempo-real"`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestTogglePanel_TwiceHidesAll(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodPost, "/paneles/eventos/toggle", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, strings.Count(w.Body.String(), "d-none"))

	w = app.do(http.MethodPost, "/paneles/eventos/toggle", "s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "d-none"))
}

func TestTogglePanel_Errors(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodPost, "/paneles/eventos/toggle", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/paneles/usuarios/toggle", "s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuery_Sections(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodPost, "/consultas/pagos", "s1", url.Values{"idPago": {"P1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "badge "+domain.BadgeNeutral)

	w = app.do(http.MethodPost, "/consultas/eventos", "s1", url.Values{"idSocio": {"S1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No se encontraron eventos")

	w = app.do(http.MethodPost, "/consultas/referidos", "s1", url.Values{"idSocio": {"S1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sin permisos")

	w = app.do(http.MethodPost, "/consultas/usuarios", "s1", url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEvent_Scenario(t *testing.T) {
	app := newTestApp(t, time.Second)
	form := url.Values{
		"tipo_evento":   {"REFERIDO"},
		"estado_evento": {"PENDIENTE"},
		"monto":         {"100.5"},
		"idSocio":       {"S1"},
		"idReferido":    {"R1"},
	}

	w := app.do(http.MethodPost, "/eventos", "s1", form)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(HeaderFormReset))
	assert.Contains(t, w.Body.String(), application.MsgEventoCreado)
	require.Len(t, app.queries.created, 1)
	assert.Equal(t, qdomain.CrearEventoInput{
		TipoEvento: "REFERIDO", EstadoEvento: "PENDIENTE", Monto: 100.5, IDSocio: "S1", IDReferido: "R1",
	}, app.queries.created[0])
}

func TestCreateEvent_MultipartScenario(t *testing.T) {
	// ARRANGE
	app := newTestApp(t, time.Second)
	form := url.Values{
		"tipo_evento":   {"REFERIDO"},
		"estado_evento": {"PENDIENTE"},
		"monto":         {"100.5"},
		"idSocio":       {"S1"},
		"idReferido":    {"R1"},
	}

	// ACT
	w := app.doMultipart(t, "/eventos", "s1", form)

	// ASSERT
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(HeaderFormReset))
	assert.Contains(t, w.Body.String(), application.MsgEventoCreado)
	require.Len(t, app.queries.created, 1)
	assert.Equal(t, qdomain.CrearEventoInput{
		TipoEvento: "REFERIDO", EstadoEvento: "PENDIENTE", Monto: 100.5, IDSocio: "S1", IDReferido: "R1",
	}, app.queries.created[0])
}

func TestCreateEvent_MultipartValidation(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.doMultipart(t, "/eventos", "s1", url.Values{"tipo_evento": {"REFERIDO"}, "monto": {"inf"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Header().Get(HeaderFormReset))
	assert.Contains(t, w.Body.String(), "alert-warning")
	assert.Empty(t, app.queries.created)
}

func TestQuery_MultipartSections(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.doMultipart(t, "/consultas/pagos", "s1", url.Values{"idPago": {"P1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "badge "+domain.BadgeNeutral)

	w = app.doMultipart(t, "/consultas/eventos", "s1", url.Values{"idSocio": {"S1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No se encontraron eventos")
}

func TestCreateEvent_ValidationSendsNothing(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodPost, "/eventos", "s1", url.Values{"tipo_evento": {"REFERIDO"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Header().Get(HeaderFormReset))
	assert.Contains(t, w.Body.String(), "alert-warning")
	assert.Empty(t, app.queries.created)
}

func TestHealthAndStatus(t *testing.T) {
	app := newTestApp(t, time.Second)

	w := app.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "stream": "conectando"}`, w.Body.String())

	w = app.do(http.MethodGet, "/estado", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SSE: conectando")

	w = app.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alpesui_feed_subscribers")
}

func TestStream_RelaysHubMessagesAndHeartbeat(t *testing.T) {
	// ARRANGE
	app := newTestApp(t, 20*time.Millisecond)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)

	// ACT
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// la suscripción ya está hecha cuando llegan las cabeceras
	require.NoError(t, app.hub.Publish(ctx, bus.Message{Kind: bus.KindNotification, ID: "1", HTML: "<b>hola</b>"}))

	// ASSERT
	var sawEvent, sawData, sawPing bool
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() && !(sawEvent && sawData && sawPing) {
		line := scanner.Text()
		switch {
		case line == "event:notificacion":
			sawEvent = true
		case line == "data:<b>hola</b>":
			sawData = true
		case line == "data:ping":
			sawPing = true
		}
	}
	assert.True(t, sawEvent, "falta el evento de notificación")
	assert.True(t, sawData, "falta el html de la notificación")
	assert.True(t, sawPing, "falta el heartbeat")
}
