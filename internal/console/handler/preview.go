package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/dto"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/preview"
	"github.com/mikajoos-cmyk/pfotencard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// PreviewHandler bridges the settings console and its embedded preview
// surfaces. Draft edits flow in over the REST side, debounced updates flow
// out over WebSocket.
type PreviewHandler struct {
	logger   *zap.Logger
	backend  *backend.Client
	hub      *preview.Hub
	appURL   string
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(logger *zap.Logger, client *backend.Client, hub *preview.Hub, appURL string, m *metrics.Metrics) *PreviewHandler {
	return &PreviewHandler{
		logger:  logger.Named("handler.preview"),
		backend: client,
		hub:     hub,
		appURL:  appURL,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The preview surface is same-origin; the standalone app
				// connects from its own host
				return true
			},
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Draft accepts an unsaved configuration state and schedules a debounced
// push to attached preview surfaces. Drafts are never persisted.
func (h *PreviewHandler) Draft(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	payload := preview.Project(configFromRequest(&req),
		c.DefaultQuery("view_mode", "mobile"),
		c.DefaultQuery("role", "member"))
	if h.metrics != nil {
		h.metrics.PreviewPush("draft")
	}
	if err := h.hub.Publish(c.Request.Context(), sess.TenantID, payload); err != nil {
		h.logger.Warn("failed to relay draft", zap.Error(err))
	}

	c.Status(http.StatusAccepted)
}

// Snapshot returns the "open in new tab" URL carrying the current saved
// configuration in its fragment
func (h *PreviewHandler) Snapshot(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	cfg, err := h.backend.GetConfig(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			i18n.RespondWithError(c, i18n.ErrorSessionExpired)
			return
		}
		h.logger.Error("failed to load settings for snapshot", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorSettingsLoadFailed)
		return
	}

	payload := preview.Project(cfg,
		c.DefaultQuery("view_mode", "mobile"),
		c.DefaultQuery("role", "member"))
	url, err := preview.SnapshotURL(h.appURL, payload)
	if err != nil {
		h.logger.Error("failed to encode snapshot", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, &dto.SnapshotResponse{URL: url})
}

// HandleWebSocket attaches a preview surface to its tenant's live update
// channel
func (h *PreviewHandler) HandleWebSocket(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil || !sess.Authenticated() {
		i18n.RespondWithError(c, i18n.ErrorLoginRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade preview connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	b := h.hub.Get(sess.TenantID)
	ch, cancel := b.Subscribe()
	defer cancel()

	if h.metrics != nil {
		h.metrics.PreviewSubscribe()
		defer h.metrics.PreviewUnsubscribe()
	}

	h.logger.Info("preview surface connected", zap.String("tenant", sess.TenantID))
	defer h.logger.Info("preview surface disconnected", zap.String("tenant", sess.TenantID))

	// reader: the surface only ever sends its ready handshake
	go h.readLoop(conn, b)

	for env := range ch {
		if err := conn.WriteJSON(env); err != nil {
			h.logger.Warn("failed to push preview update", zap.Error(err))
			return
		}
		if h.metrics != nil {
			h.metrics.PreviewPush("live")
		}
	}
}

func (h *PreviewHandler) readLoop(conn *websocket.Conn, b *preview.Broadcaster) {
	for {
		var msg dto.PreviewMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("preview connection error", zap.Error(err))
			}
			return
		}
		// A surface that finishes loading after the last edit would wait
		// forever on the debounce; ready skips it
		if msg.Type == dto.MsgTypePreviewReady {
			b.Flush()
		}
	}
}
