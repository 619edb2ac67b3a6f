package preview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBroadcasterDebounceCollapsesRapidEdits(t *testing.T) {
	b := NewBroadcaster(zap.NewNop(), 20*time.Millisecond)
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		cfg := testConfig()
		cfg.SchoolName = "Edit " + string(rune('A'+i))
		b.Publish(Project(cfg, "mobile", "member"))
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case env := <-ch:
		assert.Equal(t, MsgTypeUpdateConfig, env.Type)
		assert.Equal(t, SchemaVersion, env.Version)
		assert.Equal(t, "Edit E", env.Payload.SchoolName)
	case <-time.After(time.Second):
		t.Fatal("no update delivered after debounce window")
	}

	// only the final state arrives
	select {
	case env := <-ch:
		t.Fatalf("unexpected second delivery: %s", env.Payload.SchoolName)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcasterFlushSkipsDebounce(t *testing.T) {
	b := NewBroadcaster(zap.NewNop(), time.Hour)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Project(testConfig(), "mobile", "member"))
	b.Flush()

	select {
	case env := <-ch:
		assert.Equal(t, "Hundeschule Wuff", env.Payload.SchoolName)
	case <-time.After(time.Second):
		t.Fatal("flush did not deliver immediately")
	}
}

func TestBroadcasterFlushWithoutStateIsNoop(t *testing.T) {
	b := NewBroadcaster(zap.NewNop(), time.Hour)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Flush()

	select {
	case <-ch:
		t.Fatal("flush delivered without any published state")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBroadcasterCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster(zap.NewNop(), 10*time.Millisecond)
	ch, cancel := b.Subscribe()

	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok)

	// a detached watcher no longer receives anything
	b.Publish(Project(testConfig(), "mobile", "member"))
	b.Flush()
}

func TestBroadcasterInjectBypassesDebounceAndUpdatesLatest(t *testing.T) {
	b := NewBroadcaster(zap.NewNop(), time.Hour)
	ch, cancel := b.Subscribe()
	defer cancel()

	p := Project(testConfig(), "desktop", "admin")
	b.Inject(NewEnvelope(p))

	select {
	case env := <-ch:
		assert.Equal(t, "Hundeschule Wuff", env.Payload.SchoolName)
	case <-time.After(time.Second):
		t.Fatal("inject did not deliver immediately")
	}

	assert.Equal(t, p, b.Latest())
}
