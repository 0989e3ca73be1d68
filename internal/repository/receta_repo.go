package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecetaRepository interface {
	Create(ctx context.Context, r *model.Receta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error)
	// FindByIDTx loads the recipe with its lines in Orden and each line's ingredient.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Receta, error)
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) Create(ctx context.Context, receta *model.Receta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lineas := receta.Ingredientes
		if err := tx.Omit("Ingredientes").Create(receta).Error; err != nil {
			return err
		}
		for i := range lineas {
			lineas[i].RecetaID = receta.ID
		}
		if len(lineas) > 0 {
			if err := tx.Omit("Ingrediente").Create(&lineas).Error; err != nil {
				return err
			}
		}
		receta.Ingredientes = lineas
		return nil
	})
}

func (r *recetaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *recetaRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Receta, error) {
	var receta model.Receta
	err := tx.WithContext(ctx).
		Preload("Ingredientes", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("Ingredientes.Ingrediente").
		Where("id = ?", id).
		First(&receta).Error
	return &receta, err
}
