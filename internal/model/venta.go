package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Venta is an immutable sale record. It is only written after every charged
// ingredient has been validated and deducted in the same transaction.
type Venta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TurnoID   uuid.UUID `gorm:"type:uuid;not null;index" json:"turno_id"`
	RecetaID  uuid.UUID `gorm:"type:uuid;not null;index" json:"receta_id"`
	Cantidad  int       `gorm:"not null" json:"cantidad"`
	CreatedAt time.Time `json:"created_at"`

	Receta *Receta `gorm:"foreignKey:RecetaID" json:"receta,omitempty"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}
