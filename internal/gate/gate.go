package gate

import (
	"context"
	"net/url"
	"strings"

	"github.com/mikajoos-cmyk/pfotencard/internal/backend"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/session"

	"go.uber.org/zap"
)

// State is the gate's position in the access decision for one navigation
type State string

const (
	// StateUnknown marks a denial taken without a subscription answer,
	// the fail-closed branch of an unreachable backend
	StateUnknown           State = "unknown"
	StateUnauthenticated   State = "unauthenticated"
	StateGranted           State = "granted"
	StateDeniedPendingPlan State = "denied_pending_plan"
	StateDeniedNoPlan      State = "denied_no_plan"
)

// Action is what the console surface does with a finished decision
type Action string

const (
	ActionRender           Action = "render"
	ActionRedirectLogin    Action = "redirect_login"
	ActionRedirectCheckout Action = "redirect_checkout"
	ActionRedirectBilling  Action = "redirect_billing"
)

// Decision is the terminal outcome of one gate evaluation
type Decision struct {
	State  State
	Action Action
	// Target is the redirect location for non-render actions
	Target string
}

// StatusFetcher is the slice of the backend client the gate depends on
type StatusFetcher interface {
	TenantStatus(ctx context.Context, subdomain string) (*backend.TenantStatus, error)
}

// PlanPeeker reports a pending plan without consuming it
type PlanPeeker interface {
	PeekPendingPlan(ctx context.Context, sessionID string) (*session.PendingPlan, error)
}

// Gate decides, per navigation to a protected view, whether to render it or
// where to redirect instead. It holds no per-navigation state; every request
// runs the full evaluation again.
type Gate struct {
	logger *zap.Logger
	status StatusFetcher
	plans  PlanPeeker
}

// New creates a new access gate
func New(logger *zap.Logger, status StatusFetcher, plans PlanPeeker) *Gate {
	return &Gate{
		logger: logger.Named("gate"),
		status: status,
		plans:  plans,
	}
}

// paymentFlowPaths are always reachable for an authenticated session, valid
// subscription or not. Without this carve-out a tenant that must pay could
// never reach the page that lets it pay.
var paymentFlowPaths = []string{
	cnst.PathCheckout,
	cnst.PathBilling,
	cnst.PathPricing,
}

// IsPaymentFlow reports whether the path belongs to the payment flow
func IsPaymentFlow(path string) bool {
	for _, p := range paymentFlowPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Evaluate runs the access decision for one navigation. A failing
// subscription check fails closed: the navigation proceeds through the
// denied branches, never into a grant.
func (g *Gate) Evaluate(ctx context.Context, sess *session.Session, path string) Decision {
	if !sess.Authenticated() {
		return Decision{
			State:  StateUnauthenticated,
			Action: ActionRedirectLogin,
			Target: cnst.PathLogin + "?redirect=" + url.QueryEscape(path),
		}
	}

	if IsPaymentFlow(path) {
		return Decision{State: StateGranted, Action: ActionRender}
	}

	status, err := g.status.TenantStatus(ctx, sess.TenantID)
	if err == nil && status.SubscriptionValid {
		return Decision{State: StateGranted, Action: ActionRender}
	}

	statePending := StateDeniedPendingPlan
	stateNoPlan := StateDeniedNoPlan
	if err != nil {
		g.logger.Warn("subscription check failed, failing closed",
			zap.String("tenant", sess.TenantID),
			zap.Error(err))
		statePending = StateUnknown
		stateNoPlan = StateUnknown
	}

	pending, perr := g.plans.PeekPendingPlan(ctx, sess.ID)
	if perr != nil {
		g.logger.Warn("failed to read pending plan", zap.Error(perr))
		pending = nil
	}

	if pending != nil {
		q := url.Values{}
		q.Set("plan", pending.Plan)
		q.Set("cycle", pending.Cycle)
		return Decision{
			State:  statePending,
			Action: ActionRedirectCheckout,
			Target: cnst.PathCheckout + "?" + q.Encode(),
		}
	}

	return Decision{
		State:  stateNoPlan,
		Action: ActionRedirectBilling,
		Target: cnst.PathBilling,
	}
}
