package handler

import (
	"errors"
	"net/http"

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

// BillingHandler handles plan selection, checkout and subscription
// management
type BillingHandler struct {
	logger     *zap.Logger
	backend    *backend.Client
	sessions   *session.Manager
	jwtService *jwt.Service
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(logger *zap.Logger, client *backend.Client, sessions *session.Manager, jwtService *jwt.Service) *BillingHandler {
	return &BillingHandler{
		logger:     logger.Named("handler.billing"),
		backend:    client,
		sessions:   sessions,
		jwtService: jwtService,
	}
}

// SelectPlan records a plan choice from the pricing page. An anonymous
// visitor gets the plan parked on their session and is sent to login; an
// authenticated one goes straight to checkout.
func (h *BillingHandler) SelectPlan(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrorPlanRequired)
		return
	}
	if req.Cycle == "" {
		req.Cycle = "monthly"
	}

	ctx := c.Request.Context()
	sess := middleware.SessionFromContext(c)
	if sess != nil && sess.Authenticated() {
		i18n.RespondWithSuccess(c, http.StatusOK, "PlanSelected", nil, &dto.LoginResponse{
			Redirect: cnst.PathCheckout + "?plan=" + req.Plan + "&cycle=" + req.Cycle,
		})
		return
	}

	if sess == nil {
		sess = &session.Session{ID: uuid.NewString()}
		cookie, err := h.jwtService.GenerateToken(sess.ID)
		if err != nil {
			h.logger.Error("failed to establish session", zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		c.SetCookie(cnst.SessionCookie, cookie, 0, "/", "", false, true)
	}

	if err := h.sessions.SavePendingPlan(ctx, sess.ID, session.PendingPlan{Plan: req.Plan, Cycle: req.Cycle}); err != nil {
		h.logger.Error("failed to save pending plan", zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	i18n.RespondWithSuccess(c, http.StatusOK, "PlanSelected", nil, &dto.LoginResponse{Redirect: cnst.PathLogin})
}

// Checkout starts a subscription for the selected plan and returns the
// payment provider handoff
func (h *BillingHandler) Checkout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBind(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrorPlanRequired)
		return
	}
	if req.Cycle == "" {
		req.Cycle = "monthly"
	}

	clientSecret, redirectURL, err := h.backend.CreateSubscription(c.Request.Context(), sess, req.Plan, req.Cycle)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			i18n.RespondWithError(c, i18n.ErrorSessionExpired)
			return
		}
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			respondBackendError(c, apiErr, i18n.ErrorBackendRejected)
			return
		}
		h.logger.Error("checkout failed",
			zap.String("tenant", sess.TenantID),
			zap.String("plan", req.Plan),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorCheckoutFailed)
		return
	}

	c.JSON(http.StatusOK, &dto.CheckoutResponse{
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}

// Status reports the tenant's subscription state. Authenticated calls use
// the session's tenant; anonymous ones must name a subdomain.
func (h *BillingHandler) Status(c *gin.Context) {
	subdomain := c.Query("subdomain")
	if sess := middleware.SessionFromContext(c); sess != nil && sess.Authenticated() {
		subdomain = sess.TenantID
	}
	if subdomain == "" {
		i18n.RespondWithError(c, i18n.ErrorSubdomainRequired)
		return
	}

	status, err := h.backend.TenantStatus(c.Request.Context(), subdomain)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			respondBackendError(c, apiErr, i18n.ErrorSchoolNotFound)
			return
		}
		h.logger.Error("status fetch failed",
			zap.String("subdomain", subdomain),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorBillingFailed)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Cancel schedules the subscription to end at the period boundary
func (h *BillingHandler) Cancel(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	if err := h.backend.CancelSubscription(c.Request.Context(), sess); err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			i18n.RespondWithError(c, i18n.ErrorSessionExpired)
			return
		}
		h.logger.Error("cancellation failed",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorBillingFailed)
		return
	}

	i18n.RespondWithSuccess(c, http.StatusOK, "SubscriptionCancelled", nil, nil)
}

// Portal returns the payment provider's customer portal URL
func (h *BillingHandler) Portal(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	url, err := h.backend.CustomerPortalURL(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, backend.ErrSessionExpired) {
			i18n.RespondWithError(c, i18n.ErrorSessionExpired)
			return
		}
		h.logger.Error("portal handoff failed",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrorBillingFailed)
		return
	}

	c.JSON(http.StatusOK, &dto.PortalResponse{URL: url})
}
