package preview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikajoos-cmyk/pfotencard/internal/common/cnst"
	"github.com/mikajoos-cmyk/pfotencard/internal/common/config"
	"github.com/mikajoos-cmyk/pfotencard/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Relay moves preview updates between console instances so a surface
// attached to one instance sees edits made through another. Delivery is
// fire-and-forget with no acknowledgment.
type Relay interface {
	// Publish sends an envelope to all other instances
	Publish(ctx context.Context, tenantID string, env *Envelope) error

	// Watch returns a channel receiving envelopes published elsewhere
	Watch(ctx context.Context, tenantID string) (<-chan *Envelope, error)

	// Close releases any resources held by the relay
	Close() error
}

// NoopRelay is the single-instance relay: publishes go nowhere and the
// watch channel never fires
type NoopRelay struct{}

func (NoopRelay) Publish(context.Context, string, *Envelope) error { return nil }

func (NoopRelay) Watch(ctx context.Context, _ string) (<-chan *Envelope, error) {
	ch := make(chan *Envelope)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NoopRelay) Close() error { return nil }

// RedisRelay implements Relay over Redis pub/sub, one channel per tenant
type RedisRelay struct {
	logger  *zap.Logger
	client  redis.UniversalClient
	channel string
}

// NewRedisRelay creates a new Redis-backed preview relay
func NewRedisRelay(logger *zap.Logger, cfg *config.PreviewRelayConfig) (*RedisRelay, error) {
	addrs := utils.SplitByMultipleDelimiters(cfg.Addr, ";", ",")
	redisOptions := &redis.UniversalOptions{
		Addrs:    addrs,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	if cfg.ClusterType == cnst.RedisClusterTypeSentinel {
		redisOptions.MasterName = cfg.MasterName
	}
	if cfg.ClusterType != cnst.RedisClusterTypeCluster {
		// can not set db in cluster mode
		redisOptions.DB = cfg.DB
	}
	client := redis.NewUniversalClient(redisOptions)

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = "pfc:preview"
	}

	return &RedisRelay{
		logger:  logger.Named("preview.relay"),
		client:  client,
		channel: channel,
	}, nil
}

func (r *RedisRelay) channelFor(tenantID string) string {
	return r.channel + ":" + tenantID
}

// Publish sends an envelope to all other instances
func (r *RedisRelay) Publish(ctx context.Context, tenantID string, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channelFor(tenantID), data).Err()
}

// Watch returns a channel receiving envelopes published elsewhere
func (r *RedisRelay) Watch(ctx context.Context, tenantID string) (<-chan *Envelope, error) {
	sub := r.client.Subscribe(ctx, r.channelFor(tenantID))
	ch := make(chan *Envelope, 4)

	go func() {
		defer close(ch)
		defer func() { _ = sub.Close() }()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.logger.Error("failed to decode relayed envelope", zap.Error(err))
					continue
				}
				select {
				case ch <- &env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close closes the Redis connection
func (r *RedisRelay) Close() error {
	return r.client.Close()
}

// NewRelay creates a relay based on configuration
func NewRelay(logger *zap.Logger, cfg *config.PreviewRelayConfig) (Relay, error) {
	switch cfg.Type {
	case "", "none":
		return NoopRelay{}, nil
	case "redis":
		return NewRedisRelay(logger, cfg)
	default:
		return nil, fmt.Errorf("unsupported preview relay type: %s", cfg.Type)
	}
}
