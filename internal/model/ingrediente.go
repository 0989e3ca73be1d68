package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingrediente is the warehouse-level (global) stock row for one ingredient.
// PorcentajeActual is stored, not computed on read: every mutation must call
// RecalcularPorcentaje and persist the row.
type Ingrediente struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre            string          `gorm:"uniqueIndex;not null" json:"nombre"`
	Unidad            string          `gorm:"type:varchar(20);not null;default:'g'" json:"unidad"`
	Categoria         string          `gorm:"index;not null" json:"categoria"`
	CantidadTotal     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"cantidad_total"`
	CantidadActual    decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"cantidad_actual"`
	PorcentajeActual  int             `gorm:"not null;default:0" json:"porcentaje_actual"`
	UmbralCritico     int             `gorm:"not null;default:20" json:"umbral_critico"`
	UmbralAdvertencia int             `gorm:"not null;default:40" json:"umbral_advertencia"`
	Activo            bool            `gorm:"not null;default:true" json:"activo"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Ingrediente) TableName() string { return "ingredientes" }

func (i *Ingrediente) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// RecalcularPorcentaje derives PorcentajeActual from the quantity pair.
// With no known total the stored percentage is left untouched.
func (i *Ingrediente) RecalcularPorcentaje() {
	if i.CantidadTotal.IsPositive() {
		i.PorcentajeActual = Porcentaje(i.CantidadActual, i.CantidadTotal)
	}
}

// Porcentaje returns round(actual / total * 100), or 0 when total is not positive.
func Porcentaje(actual, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(actual.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Ambitos for stock rows, movements and alerts.
const (
	AmbitoGlobal = "global"
	AmbitoMise   = "mise_en_place"
)

// Tipos de MovimientoInventario.
const (
	MovimientoVenta            = "venta"
	MovimientoReabastecimiento = "reabastecimiento"
	MovimientoAjuste           = "ajuste"
	MovimientoTraspaso         = "traspaso" // warehouse → mise en place
)

// MovimientoInventario is the append-only audit trail of every quantity
// change, in either scope. Rows are never updated or deleted.
type MovimientoInventario struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	IngredienteID uuid.UUID  `gorm:"type:uuid;not null;index" json:"ingrediente_id"`
	Ambito        string     `gorm:"type:varchar(20);not null" json:"ambito"`
	TurnoID       *uuid.UUID `gorm:"type:uuid;index" json:"turno_id,omitempty"`
	Tipo          string     `gorm:"type:varchar(20);not null" json:"tipo"`
	// Cantidad is the requested delta; it differs from Despues-Antes when the floor clamps.
	Cantidad     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad"`
	Antes        decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"antes"`
	Despues      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"despues"`
	Actor        string          `gorm:"not null" json:"actor"`
	Motivo       string          `json:"motivo"`
	ReferenciaID *uuid.UUID      `gorm:"type:uuid" json:"referencia_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`

	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID" json:"ingrediente,omitempty"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }

func (m *MovimientoInventario) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// FijarPorcentaje stores a directly supplied percentage. With a known total
// the current quantity is derived from it.
func (i *Ingrediente) FijarPorcentaje(pct int) {
	if i.CantidadTotal.IsPositive() {
		i.CantidadActual = i.CantidadTotal.
			Mul(decimal.NewFromInt(int64(pct))).
			Div(decimal.NewFromInt(100)).
			Round(3)
	}
	i.PorcentajeActual = pct
}
