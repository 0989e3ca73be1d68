package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de Alerta and their priorities.
const (
	AlertaCritica     = "critical"
	AlertaAdvertencia = "warning"
	AlertaInfo        = "info"
	AlertaSugerencia  = "suggestion"

	PrioridadCritica     = 3
	PrioridadAdvertencia = 2
	PrioridadInfo        = 1
)

// Alerta is a threshold-crossing notice. At most one unresolved alert exists
// per IngredienteID in the global scope and per (IngredienteID, TurnoID) in
// the mise en place scope; see applySchemaPatches in infra.
type Alerta struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Tipo          string     `gorm:"type:varchar(12);not null" json:"tipo"`
	Mensaje       string     `gorm:"not null" json:"mensaje"`
	IngredienteID uuid.UUID  `gorm:"type:uuid;not null;index" json:"ingrediente_id"`
	Ambito        string     `gorm:"type:varchar(20);not null;default:'global'" json:"ambito"`
	TurnoID       *uuid.UUID `gorm:"type:uuid;index" json:"turno_id,omitempty"`
	Porcentaje    int        `gorm:"not null" json:"porcentaje"`
	Prioridad     int        `gorm:"not null" json:"prioridad"`
	Resuelta      bool       `gorm:"not null;default:false" json:"resuelta"`
	ResueltaAt    *time.Time `json:"resuelta_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

func (Alerta) TableName() string { return "alertas" }

func (a *Alerta) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
