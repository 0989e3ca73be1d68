package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"gorm.io/gorm"
)

// MovimientoRepository is append-only: there is no update or delete.
type MovimientoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoInventario) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var out []model.MovimientoInventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{})
	if filter.IngredienteID != "" {
		q = q.Where("ingrediente_id = ?", filter.IngredienteID)
	}
	if filter.TurnoID != "" {
		q = q.Where("turno_id = ?", filter.TurnoID)
	}
	if filter.Ambito != "" {
		q = q.Where("ambito = ?", filter.Ambito)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Ingrediente").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&out).Error
	return out, total, err
}
