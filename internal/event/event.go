// Package event is the notification output port of the kitchen engine.
// Services publish after their transaction commits; delivery is
// fire-and-forget and never affects the outcome of the operation.
package event

import (
	"context"
	"sync"
	"time"
)

// Tipo names a notification.
type Tipo string

const (
	IngredienteActualizado  Tipo = "ingrediente_actualizado"
	IngredienteReabastecido Tipo = "ingrediente_reabastecido"
	VentaRegistrada         Tipo = "venta_registrada"
	MiseActualizada         Tipo = "mise_actualizada"
	AlertaCreada            Tipo = "alerta_creada"
	TurnoAbierto            Tipo = "turno_abierto"
	TareaActualizada        Tipo = "tarea_actualizada"
	ChecklistFirmado        Tipo = "checklist_firmado"
	TurnoCerrado            Tipo = "turno_cerrado"
	PremiosCalculados       Tipo = "premios_calculados"
	SubidaNivel             Tipo = "subida_nivel"
	InsigniasObtenidas      Tipo = "insignias_obtenidas"
)

// Event is one notification. Payload must be JSON-encodable.
type Event struct {
	Tipo      Tipo      `json:"tipo"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with the current UTC time.
func New(tipo Tipo, payload any) Event {
	return Event{Tipo: tipo, Timestamp: time.Now().UTC(), Payload: payload}
}

// Sink receives published events. Implementations must not block for long.
type Sink interface {
	Publish(ctx context.Context, e Event)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, e Event)

// Publish executes f(ctx, e).
func (f SinkFunc) Publish(ctx context.Context, e Event) {
	if f != nil {
		f(ctx, e)
	}
}

// Nop discards every event.
var Nop Sink = SinkFunc(nil)

// Multi fans an event out to every non-nil sink, in order.
func Multi(sinks ...Sink) Sink {
	var out []Sink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return SinkFunc(func(ctx context.Context, e Event) {
		for _, s := range out {
			s.Publish(ctx, e)
		}
	})
}

// PublishAll publishes events in order.
func PublishAll(ctx context.Context, s Sink, events []Event) {
	if s == nil {
		return
	}
	for _, e := range events {
		s.Publish(ctx, e)
	}
}

// Recorder keeps every published event in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns recorded events of the given type.
func (r *Recorder) OfType(t Tipo) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Tipo == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
