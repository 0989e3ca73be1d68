package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles de Usuario.
const (
	RolCocinero      = "cocinero"
	RolSupervisor    = "supervisor"
	RolAdministrador = "administrador"
)

// Usuario stores system users with role-based access.
// Only supervisor and administrador may sign a shift checklist.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RUT          string    `gorm:"column:rut;uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// PuedeFirmar reports whether the user holds an elevated role.
func (u *Usuario) PuedeFirmar() bool {
	return u.Activo && (u.Rol == RolSupervisor || u.Rol == RolAdministrador)
}
