//go:build integration

package worker

// Queue and dead-letter behaviour against a real Redis.
// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type processorFunc func(ctx context.Context, payload json.RawMessage) error

func (f processorFunc) Process(ctx context.Context, payload json.RawMessage) error { return f(ctx, payload) }

func TestProcessJob_ReintentaYTerminaEnDLQ(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)

	llamadas := 0
	handlers := map[string]Processor{
		JobEmail: processorFunc(func(context.Context, json.RawMessage) error {
			llamadas++
			return errors.New("smtp caído")
		}),
	}
	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "jefe@cocina.cl"}))

	for i := 0; i < MaxAttempts; i++ {
		raw, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err, "attempt %d should be queued", i+1)
		processJob(ctx, rdb, handlers, QueueEmail, raw)
	}
	assert.Equal(t, MaxAttempts, llamadas)

	n, err := rdb.LLen(ctx, QueueEmail).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	dead, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dead)

	entries, err := DLQEntries(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JobEmail, entries[0].JobType)
	assert.Equal(t, MaxAttempts, entries[0].Attempts)
	assert.Equal(t, "smtp caído", entries[0].Reason)
}

func TestProcessJob_SinHandler(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)

	processJob(ctx, rdb, map[string]Processor{}, QueueReportes, `{"type":"desconocido","payload":{}}`)
	processJob(ctx, rdb, map[string]Processor{}, QueueReportes, `no es json`)

	dead, err := DLQLength(ctx, rdb, QueueReportes)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dead)
}

func TestProcessJob_Exito(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)

	var recibido ReporteJobPayload
	handlers := map[string]Processor{
		JobReporteTurno: processorFunc(func(_ context.Context, raw json.RawMessage) error {
			return json.Unmarshal(raw, &recibido)
		}),
	}
	d := NewDispatcher(rdb)
	id := uuid.New()
	require.NoError(t, d.EnqueueReporte(ctx, id))

	raw, err := rdb.RPop(ctx, QueueReportes).Result()
	require.NoError(t, err)
	processJob(ctx, rdb, handlers, QueueReportes, raw)
	assert.Equal(t, id, recibido.TurnoID)

	dead, err := DLQLength(ctx, rdb, QueueReportes)
	require.NoError(t, err)
	assert.Zero(t, dead)
}
