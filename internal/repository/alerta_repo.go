package repository

import (
	"context"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, a *model.Alerta) error
	// FindActivaTx returns the unresolved alert for (ingrediente, ambito), if
	// any. Shift-scope alerts are also keyed by turnoID.
	FindActivaTx(ctx context.Context, tx *gorm.DB, ingredienteID uuid.UUID, ambito string, turnoID *uuid.UUID) (*model.Alerta, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Alerta, error)
	ResolverTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	CountDesdeTx(ctx context.Context, tx *gorm.DB, desde time.Time) (int64, error)
	List(ctx context.Context, filter dto.AlertaFilter) ([]model.Alerta, int64, error)
	DB() *gorm.DB
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) DB() *gorm.DB { return r.db }

func (r *alertaRepo) CreateTx(ctx context.Context, tx *gorm.DB, a *model.Alerta) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *alertaRepo) FindActivaTx(ctx context.Context, tx *gorm.DB, ingredienteID uuid.UUID, ambito string, turnoID *uuid.UUID) (*model.Alerta, error) {
	var a model.Alerta
	q := tx.WithContext(ctx).
		Where("ingrediente_id = ? AND ambito = ? AND resuelta = ?", ingredienteID, ambito, false)
	if ambito == model.AmbitoMise && turnoID != nil {
		q = q.Where("turno_id = ?", *turnoID)
	}
	err := q.First(&a).Error
	return &a, err
}

func (r *alertaRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Alerta, error) {
	var a model.Alerta
	err := tx.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *alertaRepo) ResolverTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.WithContext(ctx).Model(&model.Alerta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"resuelta":    true,
		"resuelta_at": at,
	}).Error
}

func (r *alertaRepo) CountDesdeTx(ctx context.Context, tx *gorm.DB, desde time.Time) (int64, error) {
	var n int64
	err := tx.WithContext(ctx).Model(&model.Alerta{}).Where("created_at >= ?", desde).Count(&n).Error
	return n, err
}

func (r *alertaRepo) List(ctx context.Context, filter dto.AlertaFilter) ([]model.Alerta, int64, error) {
	var out []model.Alerta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Alerta{})
	if !filter.Todas {
		q = q.Where("resuelta = ?", false)
	}
	if filter.Ambito != "" {
		q = q.Where("ambito = ?", filter.Ambito)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("prioridad DESC, created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&out).Error
	return out, total, err
}
