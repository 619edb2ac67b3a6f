package handler

import (
	"net/http"

	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/i18n"

	"github.com/gin-gonic/gin"
)

// respondBackendError relays a backend rejection to the caller. A reason the
// backend wrote for the user answers verbatim; only a rejection without one
// falls back to the localized message.
func respondBackendError(c *gin.Context, apiErr *backend.APIError, fallback error) {
	if apiErr.Detail != "" {
		i18n.Detail(apiErr.Status, apiErr.Detail).Send(c)
		return
	}
	if apiErr.Status == http.StatusPaymentRequired {
		fallback = i18n.ErrorSubscriptionRequired
	}
	i18n.Error(fallback).Send(c)
}
