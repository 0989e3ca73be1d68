package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredienteRepository interface {
	Create(ctx context.Context, i *model.Ingrediente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Ingrediente, error)
	List(ctx context.Context, filter dto.IngredienteFilter) ([]model.Ingrediente, error)
	// UpdateStockTx persists the quantity pair and the stored percentage.
	UpdateStockTx(ctx context.Context, tx *gorm.DB, i *model.Ingrediente) error
	DB() *gorm.DB
}

type ingredienteRepo struct{ db *gorm.DB }

func NewIngredienteRepository(db *gorm.DB) IngredienteRepository {
	return &ingredienteRepo{db: db}
}

func (r *ingredienteRepo) DB() *gorm.DB { return r.db }

func (r *ingredienteRepo) Create(ctx context.Context, i *model.Ingrediente) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ingredienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *ingredienteRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Ingrediente, error) {
	var i model.Ingrediente
	err := tx.WithContext(ctx).Where("id = ?", id).First(&i).Error
	return &i, err
}

func (r *ingredienteRepo) List(ctx context.Context, filter dto.IngredienteFilter) ([]model.Ingrediente, error) {
	var out []model.Ingrediente
	q := r.db.WithContext(ctx).Where("activo = ?", true)
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.BajoStock {
		q = q.Where("porcentaje_actual <= umbral_advertencia")
	}
	err := q.Order("categoria ASC, nombre ASC").Find(&out).Error
	return out, err
}

func (r *ingredienteRepo) UpdateStockTx(ctx context.Context, tx *gorm.DB, i *model.Ingrediente) error {
	return tx.WithContext(ctx).Model(i).Updates(map[string]interface{}{
		"cantidad_total":    i.CantidadTotal,
		"cantidad_actual":   i.CantidadActual,
		"porcentaje_actual": i.PorcentajeActual,
	}).Error
}
