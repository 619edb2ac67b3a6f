package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/internal/product"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"
	"github.com/mikajoos-cmyk/pfotencard/pkg/trace"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RequestObserver receives the outcome of every backend request.
type RequestObserver interface {
	BackendReqDone(operation, status string, since time.Time)
}

// Client is the typed client for the product backend REST API. Every
// operation fails fast: no retries, no caching.
type Client struct {
	logger   *zap.Logger
	baseURL  string
	http     *http.Client
	tracer   *trace.Builder
	observer RequestObserver
}

// NewClient creates a new backend client
func NewClient(logger *zap.Logger, cfg *config.BackendConfig) *Client {
	return &Client{
		logger:  logger.Named("backend"),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: trace.Tracer("backend"),
	}
}

// WithObserver attaches a request observer, typically the metrics registry.
// Nil observers are ignored.
func (c *Client) WithObserver(obs RequestObserver) *Client {
	c.observer = obs
	return c
}

// Login exchanges credentials for an access token. The tenant travels in a
// header, the credentials form-encoded.
func (c *Client) Login(ctx context.Context, subdomain, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(cnst.TenantHeader, subdomain)

	body, err := c.do(req, false)
	if err != nil {
		return "", err
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", &APIError{Status: http.StatusOK, Detail: "login response carried no access token"}
	}
	return token, nil
}

// RegisterTenant registers a new school together with its admin account
func (c *Client) RegisterTenant(ctx context.Context, reg *RegisterRequest) error {
	_, err := c.postJSON(ctx, "/api/tenants/register", nil, reg)
	return err
}

// TenantStatus fetches the subscription state for a subdomain. It answers
// for anonymous callers too; the login flow uses it before authentication.
func (c *Client) TenantStatus(ctx context.Context, subdomain string) (*TenantStatus, error) {
	u := fmt.Sprintf("%s/api/tenants/status?subdomain=%s", c.baseURL, url.QueryEscape(subdomain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, false)
	if err != nil {
		return nil, err
	}

	var status TenantStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode tenant status: %w", err)
	}
	return &status, nil
}

// Subscribe switches a school onto a plan via the simplified buy-now path
func (c *Client) Subscribe(ctx context.Context, subdomain, plan string) error {
	_, err := c.postJSON(ctx, "/api/tenants/subscribe", nil, map[string]string{
		"subdomain": subdomain,
		"plan":      plan,
	})
	return err
}

// GetConfig loads the full tenant configuration
func (c *Client) GetConfig(ctx context.Context, sess *session.Session) (*product.Config, error) {
	req, err := c.authedRequest(ctx, sess, http.MethodGet, "/api/config", nil, "")
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, true)
	if err != nil {
		return nil, err
	}

	var wire product.WireConfig
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return product.FromWire(&wire), nil
}

// SaveSettings persists the full configuration and returns the authoritative
// copy with the backend-assigned identifiers for newly created services and
// levels.
func (c *Client) SaveSettings(ctx context.Context, sess *session.Session, cfg *product.Config) (*product.Config, error) {
	payload, err := json.Marshal(product.ToWire(cfg))
	if err != nil {
		return nil, err
	}

	req, err := c.authedRequest(ctx, sess, http.MethodPut, "/api/settings", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, true)
	if err != nil {
		return nil, err
	}

	var wire product.WireConfig
	if err := json.Unmarshal(body, &wire); err != nil {
		// Older backends answer with an empty body; fall back to a re-fetch.
		return c.GetConfig(ctx, sess)
	}
	return product.FromWire(&wire), nil
}

// UploadImage uploads an image and returns its public URL
func (c *Client) UploadImage(ctx context.Context, sess *session.Session, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.authedRequest(ctx, sess, http.MethodPost, "/api/upload/image", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}

	body, err := c.do(req, true)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "url").String(), nil
}

// CreateSubscription starts a hosted-checkout subscription. The payment
// processor's payload is opaque; only the client secret and redirect URL are
// extracted.
func (c *Client) CreateSubscription(ctx context.Context, sess *session.Session, plan, cycle string) (clientSecret, redirectURL string, err error) {
	body, err := c.postJSON(ctx, "/api/payments/subscription", sess, map[string]string{
		"plan":  plan,
		"cycle": cycle,
	})
	if err != nil {
		return "", "", err
	}
	return gjson.GetBytes(body, "client_secret").String(), gjson.GetBytes(body, "redirect_url").String(), nil
}

// CancelSubscription cancels the school's subscription at period end
func (c *Client) CancelSubscription(ctx context.Context, sess *session.Session) error {
	_, err := c.postJSON(ctx, "/api/payments/subscription/cancel", sess, nil)
	return err
}

// CustomerPortalURL fetches the payment processor's customer portal URL
func (c *Client) CustomerPortalURL(ctx context.Context, sess *session.Session) (string, error) {
	body, err := c.postJSON(ctx, "/api/payments/portal", sess, nil)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "url").String(), nil
}

func (c *Client) authedRequest(ctx context.Context, sess *session.Session, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if !sess.Authenticated() {
		return nil, ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set(cnst.TenantHeader, sess.TenantID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, sess *session.Session, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	var (
		req *http.Request
		err error
	)
	authed := sess != nil
	if authed {
		req, err = c.authedRequest(ctx, sess, http.MethodPost, path, body, "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}
	return c.do(req, authed)
}

// do executes the request and maps non-2xx responses onto the error
// taxonomy. On authenticated calls a 401 becomes ErrSessionExpired.
func (c *Client) do(req *http.Request, authed bool) ([]byte, error) {
	op := req.Method + " " + req.URL.Path
	scope := c.tracer.Start(req.Context(), op).WithAttrs(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path))
	defer scope.End()
	req = req.WithContext(scope.Ctx)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "transport_error", start)
		return nil, err
	}
	scope.WithAttrs(attribute.Int("http.response.status_code", resp.StatusCode))
	c.observe(op, strconv.Itoa(resp.StatusCode), start)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("backend rejected token", zap.String("path", req.URL.Path))
		return nil, ErrSessionExpired
	}

	detail := gjson.GetBytes(body, "detail").String()
	c.logger.Debug("backend rejected request",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("detail", detail))
	return nil, &APIError{Status: resp.StatusCode, Detail: detail}
}

func (c *Client) observe(op, status string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.BackendReqDone(op, status, start)
}
