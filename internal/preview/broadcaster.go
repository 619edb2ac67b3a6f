package preview

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// MsgTypeUpdateConfig is the message type the preview surface listens for
const MsgTypeUpdateConfig = "UPDATE_CONFIG"

// Envelope wraps a payload for the live message channel
type Envelope struct {
	Type    string   `json:"type"`
	Version int      `json:"version"`
	Payload *Payload `json:"payload"`
}

// NewEnvelope wraps a payload in the current schema version
func NewEnvelope(p *Payload) *Envelope {
	return &Envelope{Type: MsgTypeUpdateConfig, Version: SchemaVersion, Payload: p}
}

// Broadcaster fans configuration updates out to attached preview surfaces.
// Publishes are debounced: rapid edits collapse into one push carrying the
// latest state. Intermediate states may be skipped entirely; the surface is
// a visual aid, not a system of record, so last-write-wins is fine.
type Broadcaster struct {
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	watchers map[chan *Envelope]struct{}
	latest   *Payload
	timer    *time.Timer
}

// NewBroadcaster creates a broadcaster with the given debounce delay
func NewBroadcaster(logger *zap.Logger, debounce time.Duration) *Broadcaster {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Broadcaster{
		logger:   logger.Named("preview"),
		debounce: debounce,
		watchers: make(map[chan *Envelope]struct{}),
	}
}

// Subscribe attaches a watcher. The returned cancel func detaches it; the
// channel is closed on cancel.
func (b *Broadcaster) Subscribe() (<-chan *Envelope, func()) {
	ch := make(chan *Envelope, 4)

	b.mu.Lock()
	b.watchers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish records the latest configuration state and schedules a debounced
// push to all watchers
func (b *Broadcaster) Publish(p *Payload) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = p
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.flush)
}

// Flush pushes the latest state immediately, skipping the debounce. Used
// for the ready handshake: a surface that finishes loading after the first
// edit would otherwise never receive an initial snapshot.
func (b *Broadcaster) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()
	b.flush()
}

// Inject delivers an externally produced envelope to all watchers without
// touching the debounce window. The cross-instance relay feeds through here.
func (b *Broadcaster) Inject(env *Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if env.Payload != nil {
		b.latest = env.Payload
	}
	b.deliverLocked(env)
}

// Latest returns the most recently published payload, or nil
func (b *Broadcaster) Latest() *Payload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

func (b *Broadcaster) flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest == nil {
		return
	}
	b.deliverLocked(NewEnvelope(b.latest))
}

func (b *Broadcaster) deliverLocked(env *Envelope) {
	for ch := range b.watchers {
		select {
		case ch <- env:
		default:
			// a slow watcher skips this update and catches the next one
			b.logger.Debug("dropping preview update for slow watcher")
		}
	}
}
