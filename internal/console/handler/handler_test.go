package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/auth/jwt"
	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/internal/console/middleware"
	"github.com/mikajoos-cmyk/pfotencard/internal/preview"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var testJWT = func() *jwt.Service {
	s, _ := jwt.NewService(jwt.Config{SecretKey: "this-is-a-very-long-secret-key-for-testing", Duration: time.Hour})
	return s
}()

// fakeBackend is a minimal product backend for handler tests
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("password") != "geheim" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Falsches Passwort"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-123"}`))
	})
	mux.HandleFunc("/api/tenants/register", func(w http.ResponseWriter, r *http.Request) {
		var reg struct {
			Subdomain string `json:"subdomain"`
		}
		_ = json.NewDecoder(r.Body).Decode(&reg)
		switch reg.Subdomain {
		case "wuff":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":"Subdomain bereits vergeben"}`))
		case "kaputt":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		}
	})
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"school_name":"Hundeschule Wuff","primary_color":"#2f6f4f","services":[],"levels":[]}`))
	})
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"school_name":"Hundeschule Wuff","services":[],"levels":[]}`))
	})
	mux.HandleFunc("/api/payments/subscription", func(w http.ResponseWriter, r *http.Request) {
		var sub struct {
			Plan string `json:"plan"`
		}
		_ = json.NewDecoder(r.Body).Decode(&sub)
		if sub.Plan == "gesperrt" {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"client_secret":"cs_test","redirect_url":""}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type env struct {
	router   *gin.Engine
	sessions *session.Manager
	hub      *preview.Hub
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := fakeBackend(t)
	client := backend.NewClient(zap.NewNop(), &config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	sessions := session.NewManager(zap.NewNop(), session.NewMemoryStore())
	hub := preview.NewHub(zap.NewNop(), 5*time.Millisecond, preview.NoopRelay{})
	t.Cleanup(func() { _ = hub.Close() })

	auth := NewAuthHandler(zap.NewNop(), client, sessions, testJWT)
	settings := NewSettingsHandler(zap.NewNop(), client, sessions, hub, nil)
	billing := NewBillingHandler(zap.NewNop(), client, sessions, testJWT)
	previewHandler := NewPreviewHandler(zap.NewNop(), client, hub, "https://app.pfotencard.de", nil)

	r := gin.New()
	r.Use(middleware.Session(zap.NewNop(), testJWT, sessions))
	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/logout", auth.Logout)
	r.POST("/api/auth/register", auth.Register)
	r.POST("/api/billing/plan", billing.SelectPlan)
	authed := r.Group("/", middleware.RequireSession())
	authed.GET("/api/settings", settings.Get)
	authed.PUT("/api/settings", settings.Save)
	authed.POST("/api/billing/checkout", billing.Checkout)
	authed.GET("/api/preview/snapshot", previewHandler.Snapshot)

	return &env{router: r, sessions: sessions, hub: hub}
}

func (e *env) loggedInCookie(t *testing.T) *http.Cookie {
	t.Helper()
	assert.NoError(t, e.sessions.Login(context.Background(), "sess-1", "tok-123", "wuff"))
	cookie, err := testJWT.GenerateToken("sess-1")
	assert.NoError(t, err)
	return &http.Cookie{Name: cnst.SessionCookie, Value: cookie}
}

func TestLoginSetsSessionAndRedirects(t *testing.T) {
	e := newEnv(t)

	body := `{"subdomain":"wuff","email":"a@b.de","password":"geheim"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cnst.PathSettings, resp.Data.Redirect)

	// the login issued a session cookie
	issued := false
	for _, c := range w.Result().Cookies() {
		if c.Name == cnst.SessionCookie && c.Value != "" {
			issued = true
		}
	}
	assert.True(t, issued)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)

	body := `{"subdomain":"wuff","email":"a@b.de","password":"falsch"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// the backend's own reason reaches the user verbatim
	assert.Contains(t, w.Body.String(), "Falsches Passwort")
}

func TestRegisterSurfacesBackendDetail(t *testing.T) {
	e := newEnv(t)

	body := `{"school_name":"Hundeschule Wuff","subdomain":"wuff","email":"a@b.de","password":"geheim"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Subdomain bereits vergeben")
}

func TestRegisterRejectionWithoutDetailFallsBack(t *testing.T) {
	e := newEnv(t)

	body := `{"school_name":"Hundeschule Kaputt","subdomain":"kaputt","email":"a@b.de","password":"geheim"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ErrorRegistrationRejected")
}

func TestLoginConsumesPendingPlan(t *testing.T) {
	e := newEnv(t)

	// park a plan on an anonymous session, then log in with its cookie
	assert.NoError(t, e.sessions.SavePendingPlan(context.Background(), "sess-anon", session.PendingPlan{Plan: "pro", Cycle: "yearly"}))
	cookie, _ := testJWT.GenerateToken("sess-anon")

	body := `{"subdomain":"wuff","email":"a@b.de","password":"geheim"}`
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: cnst.SessionCookie, Value: cookie})
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Redirect, cnst.PathCheckout)
	assert.Contains(t, resp.Data.Redirect, "plan=pro")
	assert.Contains(t, resp.Data.Redirect, "cycle=yearly")

	// consumed: a second login sees no pending plan
	pending, err := e.sessions.PeekPendingPlan(context.Background(), "sess-anon")
	assert.NoError(t, err)
	assert.Nil(t, pending)
}

func TestSettingsGetRequiresSession(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest("GET", "/api/settings", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSettingsGetReturnsConfig(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest("GET", "/api/settings", nil)
	req.AddCookie(e.loggedInCookie(t))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hundeschule Wuff")
}

func TestSettingsSaveRejectsUnnamedService(t *testing.T) {
	e := newEnv(t)

	body := `{"school_name":"Wuff","services":[{"name":"","category":"training","price":"10"}],"levels":[]}`
	req := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(e.loggedInCookie(t))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectPlanAnonymousParksPlan(t *testing.T) {
	e := newEnv(t)

	body := `{"plan":"starter"}`
	req := httptest.NewRequest("POST", "/api/billing/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, cnst.PathLogin, resp.Data.Redirect)

	issued := false
	for _, c := range w.Result().Cookies() {
		if c.Name == cnst.SessionCookie && c.Value != "" {
			issued = true
		}
	}
	assert.True(t, issued)
}

func TestCheckoutReturnsClientSecret(t *testing.T) {
	e := newEnv(t)

	body := `{"plan":"pro","cycle":"monthly"}`
	req := httptest.NewRequest("POST", "/api/billing/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(e.loggedInCookie(t))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cs_test")
}

func TestCheckoutPaymentRequiredWithoutDetail(t *testing.T) {
	e := newEnv(t)

	body := `{"plan":"gesperrt","cycle":"monthly"}`
	req := httptest.NewRequest("POST", "/api/billing/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(e.loggedInCookie(t))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "ErrorSubscriptionRequired")
}

func TestSnapshotReturnsFragmentURL(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest("GET", "/api/preview/snapshot", nil)
	req.AddCookie(e.loggedInCookie(t))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "https://app.pfotencard.de/#config="))

	payload, err := preview.PayloadFromSnapshotURL(resp.URL)
	assert.NoError(t, err)
	assert.Equal(t, "Hundeschule Wuff", payload.SchoolName)
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t)
	cookie := e.loggedInCookie(t)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	sess, err := e.sessions.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.False(t, sess.Authenticated())
}
