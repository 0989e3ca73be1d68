package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receta is a sellable item. Tamano is optional ("S" | "M" | "L").
// Lines are charged per sold unit, in Orden.
type Receta struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre    string    `gorm:"index;not null" json:"nombre"`
	Tamano    *string   `gorm:"type:varchar(1)" json:"tamano,omitempty"`
	Activo    bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ingredientes []RecetaIngrediente `gorm:"foreignKey:RecetaID;constraint:OnDelete:CASCADE" json:"ingredientes"`
}

func (Receta) TableName() string { return "recetas" }

func (r *Receta) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// RecetaIngrediente is one (ingredient, quantity per unit) line of a recipe.
type RecetaIngrediente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RecetaID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"receta_id"`
	IngredienteID uuid.UUID       `gorm:"type:uuid;not null;index" json:"ingrediente_id"`
	Orden         int             `gorm:"not null;default:0" json:"orden"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad"`

	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID" json:"ingrediente,omitempty"`
}

func (RecetaIngrediente) TableName() string { return "receta_ingredientes" }

func (ri *RecetaIngrediente) BeforeCreate(*gorm.DB) error {
	assignID(&ri.ID)
	return nil
}
