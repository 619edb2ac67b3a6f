package session

import (
	"context"
	"errors"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"go.uber.org/zap"
)

// Manager owns the session lifecycle over a durable Store. It is the only
// writer of the token and tenant keys; the registration flow writes the
// pending-plan keys through it as well.
type Manager struct {
	logger *zap.Logger
	store  Store
}

// NewManager creates a new session manager
func NewManager(logger *zap.Logger, store Store) *Manager {
	return &Manager{
		logger: logger.Named("session"),
		store:  store,
	}
}

// Login persists the token and tenant and marks the session authenticated.
// The caller must have validated the credentials against the backend already;
// no network call happens here.
func (m *Manager) Login(ctx context.Context, sessionID, token, tenantID string) error {
	if token == "" || tenantID == "" {
		return ErrIncompleteCredentials
	}
	if err := m.store.Set(ctx, sessionID, cnst.KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, sessionID, cnst.KeyTenant, tenantID); err != nil {
		// roll the half-written pair back so no partial session survives
		_ = m.store.Delete(ctx, sessionID, cnst.KeyToken)
		return err
	}
	m.logger.Info("session established", zap.String("tenant", tenantID))
	return nil
}

// Logout clears all persisted state for the session. This is a hard reset:
// token, tenant and any pending plan go together.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	m.logger.Info("session cleared")
	return nil
}

// Load restores the session from durable storage. A session with only one of
// token/tenant present is not valid; the partial pair is destroyed and an
// unauthenticated session returned.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	token, tokenErr := m.store.Get(ctx, sessionID, cnst.KeyToken)
	tenant, tenantErr := m.store.Get(ctx, sessionID, cnst.KeyTenant)

	if tokenErr == nil && tenantErr == nil {
		return &Session{ID: sessionID, Token: token, TenantID: tenant}, nil
	}

	missingToken := errors.Is(tokenErr, ErrKeyNotFound)
	missingTenant := errors.Is(tenantErr, ErrKeyNotFound)
	if missingToken && missingTenant {
		return &Session{ID: sessionID}, nil
	}
	if missingToken || missingTenant {
		m.logger.Warn("destroying partial session", zap.String("session", sessionID))
		if err := m.store.Delete(ctx, sessionID, cnst.KeyToken, cnst.KeyTenant); err != nil {
			return nil, err
		}
		return &Session{ID: sessionID}, nil
	}

	if tokenErr != nil {
		return nil, tokenErr
	}
	return nil, tenantErr
}

// SavePendingPlan records a plan selected before authentication
func (m *Manager) SavePendingPlan(ctx context.Context, sessionID string, plan PendingPlan) error {
	if err := m.store.Set(ctx, sessionID, cnst.KeyPendingPlan, plan.Plan); err != nil {
		return err
	}
	return m.store.Set(ctx, sessionID, cnst.KeyPendingCycle, plan.Cycle)
}

// ConsumePendingPlan returns the pending plan and deletes it, so a second
// call reports none. Absence is not an error.
func (m *Manager) ConsumePendingPlan(ctx context.Context, sessionID string) (*PendingPlan, error) {
	plan, err := m.store.Get(ctx, sessionID, cnst.KeyPendingPlan)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cycle, err := m.store.Get(ctx, sessionID, cnst.KeyPendingCycle)
	if errors.Is(err, ErrKeyNotFound) {
		cycle = "monthly"
	} else if err != nil {
		return nil, err
	}

	if err := m.store.Delete(ctx, sessionID, cnst.KeyPendingPlan, cnst.KeyPendingCycle); err != nil {
		return nil, err
	}
	return &PendingPlan{Plan: plan, Cycle: cycle}, nil
}

// PeekPendingPlan reports the pending plan without consuming it. The access
// gate uses it to pick the checkout redirect.
func (m *Manager) PeekPendingPlan(ctx context.Context, sessionID string) (*PendingPlan, error) {
	plan, err := m.store.Get(ctx, sessionID, cnst.KeyPendingPlan)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cycle, err := m.store.Get(ctx, sessionID, cnst.KeyPendingCycle)
	if errors.Is(err, ErrKeyNotFound) {
		cycle = "monthly"
	} else if err != nil {
		return nil, err
	}
	return &PendingPlan{Plan: plan, Cycle: cycle}, nil
}
