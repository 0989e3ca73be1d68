package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Breaker is the subset of infra.CircuitBreaker the Redis sink needs.
type Breaker interface {
	Execute(fn func() error) error
}

// RedisSink publishes events as JSON on a Redis pub/sub channel so other
// processes (kitchen displays, reporting) can subscribe.
type RedisSink struct {
	rdb     *redis.Client
	channel string
	cb      Breaker
	timeout time.Duration
}

func NewRedisSink(rdb *redis.Client, channel string, cb Breaker) *RedisSink {
	return &RedisSink{rdb: rdb, channel: channel, cb: cb, timeout: 2 * time.Second}
}

func (s *RedisSink) Publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("tipo", string(e.Tipo)).Msg("event: marshal failed")
		return
	}
	publish := func() error {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.rdb.Publish(pctx, s.channel, data).Err()
	}
	if s.cb != nil {
		err = s.cb.Execute(publish)
	} else {
		err = publish()
	}
	if err != nil {
		log.Warn().Err(err).Str("tipo", string(e.Tipo)).Str("channel", s.channel).Msg("event: redis publish failed")
	}
}
