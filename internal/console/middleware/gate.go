package middleware

import (
	"net/http"

	"github.com/mikajoos-cmyk/pfotencard/internal/gate"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/mikajoos-cmyk/pfotencard/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// GateDecisionContextKey is the gin context key holding the gate decision
const GateDecisionContextKey = "gate_decision"

// AccessGate guards console views. Every navigation runs the full gate
// evaluation; non-render decisions become redirects.
func AccessGate(g *gate.Gate, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil {
			sess = &session.Session{}
		}

		d := g.Evaluate(c.Request.Context(), sess, c.Request.URL.Path)
		if m != nil {
			m.GateDecision(string(d.State))
		}
		c.Set(GateDecisionContextKey, d)

		if d.Action == gate.ActionRender {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, d.Target)
		c.Abort()
	}
}

// RequireSession rejects anonymous API calls with a translated 401. Views
// use AccessGate instead; API endpoints have no page to redirect to.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil || !sess.Authenticated() {
			i18n.RespondWithError(c, i18n.ErrorLoginRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}
