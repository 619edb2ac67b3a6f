package preview

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub hands out one broadcaster per tenant so preview surfaces of different
// schools never see each other's updates. Landing on a tenant for the first
// time also starts its relay watch, feeding in edits made through other
// console instances.
type Hub struct {
	logger   *zap.Logger
	debounce time.Duration
	relay    Relay

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	brokers map[string]*Broadcaster
}

// NewHub creates a hub with the given debounce delay and relay
func NewHub(logger *zap.Logger, debounce time.Duration, relay Relay) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger:   logger.Named("preview.hub"),
		debounce: debounce,
		relay:    relay,
		ctx:      ctx,
		cancel:   cancel,
		brokers:  make(map[string]*Broadcaster),
	}
}

// Get returns the tenant's broadcaster, creating it on first use
func (h *Hub) Get(tenantID string) *Broadcaster {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.brokers[tenantID]; ok {
		return b
	}

	b := NewBroadcaster(h.logger, h.debounce)
	h.brokers[tenantID] = b
	go h.watchRelay(tenantID, b)
	return b
}

// Publish pushes a payload to the tenant's local surfaces and relays it to
// other console instances
func (h *Hub) Publish(ctx context.Context, tenantID string, p *Payload) error {
	h.Get(tenantID).Publish(p)
	return h.relay.Publish(ctx, tenantID, NewEnvelope(p))
}

// Close stops all relay watches
func (h *Hub) Close() error {
	h.cancel()
	return nil
}

func (h *Hub) watchRelay(tenantID string, b *Broadcaster) {
	ch, err := h.relay.Watch(h.ctx, tenantID)
	if err != nil {
		h.logger.Error("failed to watch preview relay",
			zap.String("tenant", tenantID),
			zap.Error(err))
		return
	}
	for env := range ch {
		b.Inject(env)
	}
}
