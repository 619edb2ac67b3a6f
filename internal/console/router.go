package console

import (
	"github.com/mikajoos-cmyk/pfotencard/internal/auth/jwt"
	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/handler"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/gate"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/preview"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/mikajoos-cmyk/pfotencard/pkg/metrics"

	"github.com/Masterminds/sprig/v3"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Deps bundles everything the router wires together
type Deps struct {
	Logger     *zap.Logger
	Config     *config.ConsoleConfig
	Backend    *backend.Client
	Sessions   *session.Manager
	JWTService *jwt.Service
	Gate       *gate.Gate
	Hub        *preview.Hub
	Metrics    *metrics.Metrics
}

// NewRouter assembles the gin engine: marketing pages, the guarded console,
// the JSON API and the preview WebSocket bridge
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cnst.AppName))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(i18n.LangMiddleware())
	r.Use(middleware.Session(d.Logger, d.JWTService, d.Sessions))

	if d.Config.Web.TemplatesGlob != "" {
		r.SetFuncMap(sprig.HtmlFuncMap())
		r.LoadHTMLGlob(d.Config.Web.TemplatesGlob)
	}
	if d.Config.Web.StaticDir != "" {
		r.Static("/static", d.Config.Web.StaticDir)
	}

	pages := handler.NewPageHandler(d.Logger)
	auth := handler.NewAuthHandler(d.Logger, d.Backend, d.Sessions, d.JWTService)
	settings := handler.NewSettingsHandler(d.Logger, d.Backend, d.Sessions, d.Hub, d.Metrics)
	billing := handler.NewBillingHandler(d.Logger, d.Backend, d.Sessions, d.JWTService)
	previewHandler := handler.NewPreviewHandler(d.Logger, d.Backend, d.Hub, d.Config.Preview.AppURL, d.Metrics)

	// Marketing site, open to everyone
	r.GET(cnst.PathHome, pages.Home)
	r.GET(cnst.PathPricing, pages.Pricing)
	r.GET("/faq", pages.FAQ)
	r.GET("/kontakt", pages.Contact)
	r.GET("/impressum", pages.Imprint)
	r.GET("/datenschutz", pages.Privacy)
	r.GET(cnst.PathLogin, pages.Login)
	r.GET(cnst.PathRegister, pages.Register)

	// Guarded console views. Checkout and billing sit behind the gate too;
	// its payment flow carve-out keeps them reachable while unpaid.
	guarded := r.Group("/", middleware.AccessGate(d.Gate, d.Metrics))
	guarded.GET(cnst.PathSettings, pages.Settings)
	guarded.GET(cnst.PathCheckout, pages.Checkout)
	guarded.GET(cnst.PathBilling, pages.Billing)

	// JSON API
	api := r.Group("/api")
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", auth.Logout)
	api.POST("/auth/register", auth.Register)
	api.GET("/tenant/status", billing.Status)
	api.POST("/billing/plan", billing.SelectPlan)

	authed := api.Group("/", middleware.RequireSession())
	authed.GET("/settings", settings.Get)
	authed.PUT("/settings", settings.Save)
	authed.POST("/settings/upload", settings.Upload)
	authed.POST("/billing/checkout", billing.Checkout)
	authed.POST("/billing/cancel", billing.Cancel)
	authed.GET("/billing/portal", billing.Portal)
	authed.POST("/preview/draft", previewHandler.Draft)
	authed.GET("/preview/snapshot", previewHandler.Snapshot)

	r.GET("/ws/preview", previewHandler.HandleWebSocket)

	if d.Metrics != nil && d.Config.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	return r
}
