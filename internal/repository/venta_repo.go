package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaRepository has no update: sales are immutable once written.
type VentaRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error)
	// SumCantidadTx returns the units sold during a shift.
	SumCantidadTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (int, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Omit("Receta").Create(v).Error
}

func (r *ventaRepo) ListByTurno(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Receta").
		Where("turno_id = ?", turnoID).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) SumCantidadTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (int, error) {
	var total int
	err := tx.WithContext(ctx).Model(&model.Venta{}).
		Where("turno_id = ?", turnoID).
		Select("COALESCE(SUM(cantidad), 0)").
		Scan(&total).Error
	return total, err
}
