package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByRUT(ctx context.Context, rut string) (*model.Usuario, error)
	FindByRUTTx(ctx context.Context, tx *gorm.DB, rut string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByRUT(ctx context.Context, rut string) (*model.Usuario, error) {
	return r.FindByRUTTx(ctx, r.db, rut)
}

func (r *usuarioRepo) FindByRUTTx(ctx context.Context, tx *gorm.DB, rut string) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.WithContext(ctx).Where("rut = ?", rut).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("activo", activo).Error
}
