package handler

import (
	"net/http"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/product"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler renders the marketing site and the console page shells. The
// pages are server-rendered templates; the console shells load their data
// through the JSON API.
type PageHandler struct {
	logger *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{
		logger: logger.Named("handler.pages"),
	}
}

func (h *PageHandler) render(c *gin.Context, template, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if sess := middleware.SessionFromContext(c); sess != nil && sess.Authenticated() {
		data["Tenant"] = sess.TenantID
	}
	c.HTML(http.StatusOK, template, data)
}

// Home renders the marketing landing page
func (h *PageHandler) Home(c *gin.Context) {
	h.render(c, "home.tmpl", "PfotenCard", nil)
}

// Pricing renders the plan comparison page
func (h *PageHandler) Pricing(c *gin.Context) {
	h.render(c, "pricing.tmpl", "Preise", gin.H{
		"Plans": []product.Plan{product.PlanStarter, product.PlanPro, product.PlanVerband},
	})
}

// FAQ renders the frequently asked questions page
func (h *PageHandler) FAQ(c *gin.Context) {
	h.render(c, "faq.tmpl", "Häufige Fragen", nil)
}

// Contact renders the contact page
func (h *PageHandler) Contact(c *gin.Context) {
	h.render(c, "contact.tmpl", "Kontakt", nil)
}

// Imprint renders the legal imprint
func (h *PageHandler) Imprint(c *gin.Context) {
	h.render(c, "imprint.tmpl", "Impressum", nil)
}

// Privacy renders the privacy policy
func (h *PageHandler) Privacy(c *gin.Context) {
	h.render(c, "privacy.tmpl", "Datenschutz", nil)
}

// Login renders the login form. An already authenticated session skips it.
func (h *PageHandler) Login(c *gin.Context) {
	if sess := middleware.SessionFromContext(c); sess != nil && sess.Authenticated() {
		c.Redirect(http.StatusFound, cnst.PathSettings)
		return
	}
	h.render(c, "login.tmpl", "Anmelden", gin.H{
		"Redirect": c.Query("redirect"),
	})
}

// Register renders the registration form, optionally pre-selecting a plan
func (h *PageHandler) Register(c *gin.Context) {
	h.render(c, "register.tmpl", "Registrieren", gin.H{
		"Plan":  c.Query("plan"),
		"Cycle": c.Query("cycle"),
	})
}

// Settings renders the settings console shell
func (h *PageHandler) Settings(c *gin.Context) {
	h.render(c, "settings.tmpl", "Einstellungen", nil)
}

// Checkout renders the checkout page for the plan in the query
func (h *PageHandler) Checkout(c *gin.Context) {
	h.render(c, "checkout.tmpl", "Checkout", gin.H{
		"Plan":  c.Query("plan"),
		"Cycle": c.DefaultQuery("cycle", "monthly"),
	})
}

// Billing renders the subscription management page shell
func (h *PageHandler) Billing(c *gin.Context) {
	h.render(c, "billing.tmpl", "Abonnement", nil)
}
