package handler

import (
	"errors"
	"net/http"

	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/dto"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/preview"
	"github.com/mikajoos-cmyk/pfotencard/internal/product"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/mikajoos-cmyk/pfotencard/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettingsHandler handles the settings console API: loading and saving the
// tenant configuration and image uploads
type SettingsHandler struct {
	logger   *zap.Logger
	backend  *backend.Client
	sessions *session.Manager
	hub      *preview.Hub
	metrics  *metrics.Metrics
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger *zap.Logger, client *backend.Client, sessions *session.Manager, hub *preview.Hub, m *metrics.Metrics) *SettingsHandler {
	return &SettingsHandler{
		logger:   logger.Named("handler.settings"),
		backend:  client,
		sessions: sessions,
		hub:      hub,
		metrics:  m,
	}
}

// forceLogout destroys a session whose backend token stopped working. The
// next navigation starts from a clean unauthenticated state instead of
// looping on a dead token.
func (h *SettingsHandler) forceLogout(c *gin.Context, sess *session.Session) {
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		h.logger.Error("failed to clear expired session", zap.Error(err))
	}
	c.SetCookie(cnst.SessionCookie, "", -1, "/", "", false, true)
	i18n.RespondWithError(c, i18n.ErrorSessionExpired)
}

// Get returns the tenant configuration for the settings console
func (h *SettingsHandler) Get(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	cfg, err := h.backend.GetConfig(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			h.forceLogout(c, sess)
			return
		}
		h.logger.Error("failed to load settings",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorSettingsLoadFailed)
		return
	}

	c.JSON(http.StatusOK, product.ToWire(cfg))
}

// Save validates and persists the tenant configuration, then pushes the
// saved state to any attached preview surfaces
func (h *SettingsHandler) Save(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	cfg := configFromRequest(&req)
	if err := cfg.Validate(); err != nil {
		i18n.RespondWithError(c, validationError(err))
		return
	}

	ctx := c.Request.Context()
	saved, err := h.backend.SaveSettings(ctx, sess, cfg)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			h.forceLogout(c, sess)
			return
		}
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			respondBackendError(c, apiErr, i18n.ErrorBackendRejected)
			return
		}
		h.logger.Error("failed to save settings",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorSettingsSaveFailed)
		return
	}

	h.publishPreview(c, sess, saved)

	c.JSON(http.StatusOK, product.ToWire(saved))
}

// publishPreview pushes the saved configuration to the tenant's preview
// surfaces, local and relayed
func (h *SettingsHandler) publishPreview(c *gin.Context, sess *session.Session, cfg *product.Config) {
	payload := preview.Project(cfg,
		c.DefaultQuery("view_mode", "mobile"),
		c.DefaultQuery("role", "member"))
	if h.metrics != nil {
		h.metrics.PreviewPush("save")
	}
	if err := h.hub.Publish(c.Request.Context(), sess.TenantID, payload); err != nil {
		h.logger.Warn("failed to relay preview update",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
	}
}

// Upload stores an image with the backend and returns its public URL
func (h *SettingsHandler) Upload(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.backend.UploadImage(c.Request.Context(), sess, header.Filename, file)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			h.forceLogout(c, sess)
			return
		}
		h.logger.Error("image upload failed", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorImageUploadFailed)
		return
	}

	c.JSON(http.StatusOK, &dto.UploadResponse{URL: url})
}

// validationError maps a configuration validation failure onto its
// translated error
func validationError(err error) error {
	switch {
	case errors.Is(err, product.ErrServiceNameRequired):
		return i18n.ErrorServiceNameRequired
	case errors.Is(err, product.ErrUnsavedServiceReference):
		return i18n.ErrorRequirementUnsaved
	default:
		return i18n.ErrorSettingsInvalid
	}
}
