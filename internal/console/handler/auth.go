package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/mikajoos-cmyk/pfotencard/internal/auth/jwt"
	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/dto"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler handles login, logout and school registration
type AuthHandler struct {
	logger     *zap.Logger
	backend    *backend.Client
	sessions   *session.Manager
	jwtService *jwt.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(logger *zap.Logger, client *backend.Client, sessions *session.Manager, jwtService *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger:     logger.Named("handler.auth"),
		backend:    client,
		sessions:   sessions,
		jwtService: jwtService,
	}
}

// ensureSession returns the request's session, creating a fresh anonymous
// one and issuing its cookie when the browser has none yet
func (h *AuthHandler) ensureSession(c *gin.Context) (*session.Session, error) {
	if sess := middleware.SessionFromContext(c); sess != nil {
		return sess, nil
	}
	sess := &session.Session{ID: uuid.NewString()}
	cookie, err := h.jwtService.GenerateToken(sess.ID)
	if err != nil {
		return nil, err
	}
	c.SetCookie(cnst.SessionCookie, cookie, 0, "/", "", false, true)
	c.Set(middleware.SessionContextKey, sess)
	return sess, nil
}

// Login handles a login form submission
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		h.logger.Error("failed to establish session", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	ctx := c.Request.Context()
	token, err := h.backend.Login(ctx, req.Subdomain, req.Email, req.Password)
	if err != nil {
		var apiErr *backend.APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
			respondBackendError(c, apiErr, i18n.ErrorInvalidCredentials)
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
			respondBackendError(c, apiErr, i18n.ErrorSchoolNotFound)
		default:
			h.logger.Error("login failed",
				zap.String("subdomain", req.Subdomain),
				zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternalServer)
		}
		return
	}

	if err := h.sessions.Login(ctx, sess.ID, token, req.Subdomain); err != nil {
		h.logger.Error("failed to persist session", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	// A plan picked before login takes priority over the requested page
	redirect := req.Redirect
	if redirect == "" {
		redirect = cnst.PathSettings
	}
	pending, err := h.sessions.ConsumePendingPlan(ctx, sess.ID)
	if err != nil {
		h.logger.Warn("failed to read pending plan", zap.Error(err))
	}
	if pending != nil {
		q := url.Values{}
		q.Set("plan", pending.Plan)
		q.Set("cycle", pending.Cycle)
		redirect = cnst.PathCheckout + "?" + q.Encode()
	}

	i18n.RespondWithSuccess(c, http.StatusOK, "LoginSuccess", nil, &dto.LoginResponse{Redirect: redirect})
}

// Logout destroys the session and clears the cookie. Logout of an already
// anonymous browser is a no-op, not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.SessionFromContext(c); sess != nil {
		if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
			h.logger.Error("failed to clear session", zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
	}
	c.SetCookie(cnst.SessionCookie, "", -1, "/", "", false, true)
	i18n.RespondWithSuccess(c, http.StatusOK, "LogoutSuccess", nil, &dto.LoginResponse{Redirect: cnst.PathHome})
}

// Register handles a school registration form submission
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	ctx := c.Request.Context()
	err := h.backend.RegisterTenant(ctx, &backend.RegisterRequest{
		SchoolName: req.SchoolName,
		Subdomain:  req.Subdomain,
		AdminName:  req.AdminName,
		Email:      req.Email,
		Password:   req.Password,
		Plan:       req.Plan,
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			h.logger.Warn("registration rejected",
				zap.String("subdomain", req.Subdomain),
				zap.Int("status", apiErr.Status))
			respondBackendError(c, apiErr, i18n.ErrorRegistrationRejected)
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	// A plan chosen on the pricing page survives registration and the
	// login that follows it
	if req.Plan != "" {
		sess, err := h.ensureSession(c)
		if err == nil {
			err = h.sessions.SavePendingPlan(ctx, sess.ID, session.PendingPlan{Plan: req.Plan, Cycle: req.Cycle})
		}
		if err != nil {
			h.logger.Warn("failed to save pending plan", zap.Error(err))
		}
	}

	i18n.RespondWithSuccess(c, http.StatusCreated, "RegisterSuccess", nil, &dto.LoginResponse{Redirect: cnst.PathLogin})
}
