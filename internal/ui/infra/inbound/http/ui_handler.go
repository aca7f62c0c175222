package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/alpesui/internal/shared/infra/platform/bus"
	"github.com/davicafu/alpesui/internal/shared/infra/platform/metrics"
	sdomain "github.com/davicafu/alpesui/internal/stream/domain"
	"github.com/davicafu/alpesui/internal/view/application"
	"github.com/davicafu/alpesui/internal/view/domain"
	"github.com/davicafu/alpesui/pkg/utils"
)

const (
	SessionCookie = "alpesui_sesion"

	// HeaderFormReset indica al navegador que vacíe el formulario.
	HeaderFormReset = "X-Form-Reset"

	relayBuffer      = 32
	defaultHeartbeat = 15 * time.Second
	maxFormMemory    = 1 << 20
)

// UIHandler encapsula los endpoints de la consola
type UIHandler struct {
	pages     *application.PageService
	panels    *application.PanelService
	sections  *application.SectionService
	forms     *application.FormService
	status    *application.StatusBoard
	hub       bus.Hub
	heartbeat time.Duration
	log       *zap.Logger
}

// NewUIHandler crea un nuevo UIHandler
func NewUIHandler(
	pages *application.PageService,
	panels *application.PanelService,
	sections *application.SectionService,
	forms *application.FormService,
	status *application.StatusBoard,
	hub bus.Hub,
	heartbeat time.Duration,
	log *zap.Logger,
) *UIHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &UIHandler{
		pages:     pages,
		panels:    panels,
		sections:  sections,
		forms:     forms,
		status:    status,
		hub:       hub,
		heartbeat: heartbeat,
		log:       log,
	}
}

// ---------------- Handlers ----------------

// Index endpoint GET /
// Cada carga de página abre una sesión nueva, con todos los paneles ocultos.
func (h *UIHandler) Index(c *gin.Context) {
	session := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, session, 0, "/", "", false, true)

	html, err := h.pages.Render(c.Request.Context(), session)
	if err != nil {
		h.log.Error("❌ Error renderizando página", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "error renderizando página")
		return
	}
	utils.SendFragment(c, http.StatusOK, html)
}

// Status endpoint GET /estado
func (h *UIHandler) Status(c *gin.Context) {
	html, err := h.status.Render()
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SendFragment(c, http.StatusOK, html)
}

// TogglePanel endpoint POST /paneles/:panel/toggle
func (h *UIHandler) TogglePanel(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	panel, err := domain.ParsePanel(c.Param("panel"))
	if err != nil {
		utils.SendNotFound(c, "panel desconocido")
		return
	}

	state, err := h.panels.Toggle(c.Request.Context(), session, panel)
	if err != nil {
		h.log.Error("❌ Error guardando paneles", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "error guardando paneles")
		return
	}

	html, err := h.panels.Render(c.Request.Context(), session, state)
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.SendFragment(c, http.StatusOK, html)
}

// Query endpoint POST /consultas/:seccion
func (h *UIHandler) Query(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	name := c.Param("seccion")
	sec, found := h.sections.Table().Lookup(name)
	if !found {
		utils.SendNotFound(c, "sección desconocida")
		return
	}

	frag, err := h.sections.Query(c.Request.Context(), session, name, c.PostForm(sec.Param))
	if err != nil {
		if errors.Is(err, application.ErrUnknownSection) {
			utils.SendNotFound(c, "sección desconocida")
			return
		}
		h.log.Error("❌ Error en consulta", zap.String("section", name), zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "error guardando resultado")
		return
	}
	utils.SendFragment(c, http.StatusOK, frag.HTML)
}

// CreateEvent endpoint POST /eventos
func (h *UIHandler) CreateEvent(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	// el navegador envía FormData (multipart); también se acepta urlencoded
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.SendBadRequest(c, "formulario inválido")
		return
	}

	res, err := h.forms.Submit(c.Request.Context(), session, c.Request.PostForm)
	if err != nil {
		h.log.Error("❌ Error procesando formulario", zap.Error(err))
		utils.SendError(c, http.StatusInternalServerError, "error guardando resultado")
		return
	}
	c.Header(HeaderFormReset, strconv.FormatBool(res.Reset))
	utils.SendFragment(c, http.StatusOK, res.HTML)
}

// Stream endpoint GET /stream
// Reenvía al navegador las notificaciones y cambios de estado del hub.
func (h *UIHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	msgs, cancel := h.hub.Subscribe(ctx, relayBuffer)
	defer cancel()

	metrics.FeedSubscribers.Inc()
	defer metrics.FeedSubscribers.Dec()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.log.Debug("🔌 Navegador suscrito al stream", zap.String("remote", c.ClientIP()))

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent(msg.Kind, msg.HTML)
			return true
		case <-ticker.C:
			c.SSEvent("message", sdomain.HeartbeatToken)
			return true
		}
	})
}

// Health endpoint GET /health
func (h *UIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stream": h.status.Current()})
}

func (h *UIHandler) session(c *gin.Context) (string, bool) {
	session, err := c.Cookie(SessionCookie)
	if err != nil || session == "" {
		utils.SendBadRequest(c, "sesión no iniciada")
		return "", false
	}
	return session, true
}
