package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/pkg/config"
	"github.com/kmuentes1145/act8/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var _ inventory.EventPublisher = (*RedisBroker)(nil)

// RedisBroker reparte los eventos de stock entre réplicas vía Redis pub/sub.
// Cada réplica publica en el canal y reenvía lo que recibe a su Hub local.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	log     *logger.Logger
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisBroker construye el broker sobre un cliente ya abierto.
func NewRedisBroker(rdb *redis.Client, channel string, hub *Hub, log *logger.Logger) *RedisBroker {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisBroker{rdb: rdb, channel: channel, hub: hub, log: log}
}

// Channel canal de pub/sub usado.
func (b *RedisBroker) Channel() string { return b.channel }

// PublishStock publica el evento en el canal. Un fallo se registra; el movimiento ya está confirmado.
func (b *RedisBroker) PublishStock(ctx context.Context, event dto.StockEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		b.log.Error().Err(err).Msg("redis: serializar evento")
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, msg).Err(); err != nil {
		b.log.Warn().Err(err).Str("channel", b.channel).Msg("redis: publish falló, se difunde solo localmente")
		b.hub.Broadcast(msg)
	}
}

// Run se suscribe al canal y reenvía cada mensaje al Hub hasta que ctx se cancela.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.log.Info().Str("channel", b.channel).Msg("redis: suscrito a eventos de stock")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			b.hub.Broadcast([]byte(m.Payload))
		}
	}
}
