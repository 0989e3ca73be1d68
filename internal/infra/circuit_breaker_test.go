package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFalla = errors.New("falla")

func newTestBreaker() (*CircuitBreaker, *time.Time) {
	ahora := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 2, OpenTimeout: 10 * time.Second})
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func TestCircuitBreaker_AbreTrasFallas(t *testing.T) {
	cb, _ := newTestBreaker()
	falla := func() error { return errFalla }

	assert.ErrorIs(t, cb.Execute(falla), errFalla)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(falla), errFalla)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_ExitoReiniciaConteo(t *testing.T) {
	cb, _ := newTestBreaker()
	_ = cb.Execute(func() error { return errFalla })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errFalla })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SemiAbierto(t *testing.T) {
	cb, ahora := newTestBreaker()
	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errFalla })
	}
	require.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(10 * time.Second)
	assert.Equal(t, CBHalfOpen, cb.State())

	// one failed probe re-opens
	_ = cb.Execute(func() error { return errFalla })
	assert.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(10 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, DefaultCBConfig(), cb.cfg)
}
