package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/internal/product"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(zap.NewNop(), &config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return c, srv
}

func authedSession() *session.Session {
	return &session.Session{ID: "sid", Token: "tok-123", TenantID: "acme"}
}

func TestLoginSendsTenantHeaderAndForm(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "a@x.com", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		_, _ = w.Write([]byte(`{"access_token":"tok-123"}`))
	}))
	defer srv.Close()

	token, err := c.Login(context.Background(), "acme", "a@x.com", "secret")
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginSurfacesBackendDetail(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Falsches Passwort"}`))
	}))
	defer srv.Close()

	_, err := c.Login(context.Background(), "acme", "a@x.com", "wrong")
	apiErr, ok := AsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Falsches Passwort", apiErr.Detail)
}

func TestTenantStatusAnonymous(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenants/status", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("subdomain"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"exists":true,"subscription_valid":false,"plan":"starter","in_trial":true}`))
	}))
	defer srv.Close()

	status, err := c.TenantStatus(context.Background(), "acme")
	assert.NoError(t, err)
	assert.True(t, status.Exists)
	assert.False(t, status.SubscriptionValid)
	assert.Equal(t, "starter", status.Plan)
	assert.True(t, status.InTrial)
}

func TestAuthedCallWithoutTokenIsLocalFailure(t *testing.T) {
	called := false
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := c.GetConfig(context.Background(), &session.Session{ID: "sid"})
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called, "request must not be sent without a token")
}

func TestAuthedCall401BecomesSessionExpired(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.GetConfig(context.Background(), authedSession())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetConfigCarriesBearerAndTenant(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
		_, _ = w.Write([]byte(`{
			"school_name": "Hundeschule Wuff",
			"primary_color": "#2f6f4f",
			"secondary_color": "#f0e9dd",
			"level_term": "Level",
			"vip_term": "VIP",
			"services": [{"id": 3, "name": "Gruppenstunde", "category": "training", "price": "15"}],
			"levels": [{"id": 1, "name": "Welpe", "rank_order": 1,
				"requirements": [{"service_id": 3, "required_count": 6}]}]
		}`))
	}))
	defer srv.Close()

	cfg, err := c.GetConfig(context.Background(), authedSession())
	assert.NoError(t, err)
	assert.Equal(t, "Hundeschule Wuff", cfg.SchoolName)
	assert.Equal(t, "#2f6f4f", cfg.Branding.PrimaryColor)
	assert.Len(t, cfg.Services, 1)
	assert.Equal(t, int64(3), *cfg.Services[0].ID)
	assert.Equal(t, 6, cfg.Levels[0].Requirements[0].RequiredCount)
}

func TestUploadImageReturnsURL(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "logo.png", header.Filename)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/logo.png"}`))
	}))
	defer srv.Close()

	url, err := c.UploadImage(context.Background(), authedSession(), "logo.png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", url)
}

func TestCreateSubscriptionExtractsSecretAndRedirect(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"client_secret":"cs_test","redirect_url":"https://pay.example.com/x","irrelevant":{"nested":1}}`))
	}))
	defer srv.Close()

	secret, redirect, err := c.CreateSubscription(context.Background(), authedSession(), "pro", "monthly")
	assert.NoError(t, err)
	assert.Equal(t, "cs_test", secret)
	assert.Equal(t, "https://pay.example.com/x", redirect)
}

func TestSaveSettingsFallsBackToRefetchOnEmptyBody(t *testing.T) {
	saved := false
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/settings":
			assert.Equal(t, http.MethodPut, r.Method)
			saved = true
			w.WriteHeader(http.StatusNoContent)
		case "/api/config":
			_, _ = w.Write([]byte(`{"school_name":"Hundeschule Wuff","primary_color":"#111111","secondary_color":"#222222","level_term":"Stufe","vip_term":"VIP","services":[],"levels":[]}`))
		}
	}))
	defer srv.Close()

	cfg, err := c.SaveSettings(context.Background(), authedSession(), &product.Config{})
	assert.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, "Stufe", cfg.Wording.LevelTerm)
}

func TestRequestsEmitSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"exists":true,"subscription_valid":true}`))
	}))
	defer srv.Close()

	_, err := c.TenantStatus(context.Background(), "acme")
	assert.NoError(t, err)

	found := false
	for _, span := range recorder.Ended() {
		if span.Name() == "GET /api/tenants/status" {
			found = true
		}
	}
	assert.True(t, found, "tenant status call must leave a span")
}
