package service

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/event"

	"gorm.io/gorm"
)

// runTx executes fn inside one GORM transaction. Any error returned by fn
// rolls back every write it made.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// pendientes buffers notifications produced inside a transaction. They are
// flushed only once the transaction has committed.
type pendientes []event.Event

func (p *pendientes) add(tipo event.Tipo, payload any) {
	*p = append(*p, event.New(tipo, payload))
}

func (p pendientes) flush(ctx context.Context, sink event.Sink) {
	event.PublishAll(ctx, sink, p)
}
