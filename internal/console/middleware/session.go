package middleware

import (
	"github.com/mikajoos-cmyk/pfotencard/internal/auth/jwt"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionContextKey is the gin context key holding the resolved session
const SessionContextKey = "session"

// Session resolves the signed session cookie into a session record and puts
// it on the context. Requests without a cookie, or with a stale one, proceed
// anonymously; route guards decide what that means.
func Session(logger *zap.Logger, jwtService *jwt.Service, sessions *session.Manager) gin.HandlerFunc {
	logger = logger.Named("middleware.session")
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cnst.SessionCookie)
		if err != nil {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(cookie)
		if err != nil {
			// stale or tampered cookie, drop it
			c.SetCookie(cnst.SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		sess, err := sessions.Load(c.Request.Context(), claims.SessionID)
		if err != nil {
			logger.Error("failed to load session",
				zap.String("session", claims.SessionID),
				zap.Error(err))
			c.Next()
			return
		}

		c.Set(SessionContextKey, sess)
		c.Next()
	}
}

// SessionFromContext returns the session resolved by the Session middleware,
// or nil for an anonymous request
func SessionFromContext(c *gin.Context) *session.Session {
	v, exists := c.Get(SessionContextKey)
	if !exists {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
