package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window limiter per client IP ────────────────────────────────────────

type ventana struct {
	count int
	fin   time.Time
}

// Limiter counts requests per IP in fixed windows.
type Limiter struct {
	limit   int
	window  time.Duration
	mensaje string

	mu      sync.Mutex
	entries map[string]*ventana
}

func NewLimiter(limit int, window time.Duration, mensaje string) *Limiter {
	return &Limiter{limit: limit, window: window, mensaje: mensaje, entries: make(map[string]*ventana)}
}

// allow records one hit for ip and reports whether it is within the limit.
func (l *Limiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.entries[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.window)}
		l.entries[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.fin
}

func (l *Limiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := l.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// Purge drops expired windows every interval until ctx is done.
func (l *Limiter) Purge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			purged := 0
			for ip, v := range l.entries {
				if now.After(v.fin) {
					delete(l.entries, ip)
					purged++
				}
			}
			remaining := len(l.entries)
			l.mu.Unlock()
			if purged > 0 {
				log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter purged")
			}
		}
	}
}

// LoginLimiter allows 20 login or signing attempts per minute per IP.
func LoginLimiter() *Limiter {
	return NewLimiter(20, time.Minute, "Demasiados intentos. Intente en 1 minuto.")
}

// APILimiter is the general limiter for the /v1 group.
func APILimiter(limit int, window time.Duration) *Limiter {
	return NewLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
