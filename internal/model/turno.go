package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de Turno.
const (
	TurnoAbierto = "abierto"
	TurnoCerrado = "cerrado"
)

// Turno represents the lifecycle of a production shift.
// Estado: "abierto" | "cerrado". ChecklistFirmado is orthogonal to Estado:
// a shift can close unsigned.
type Turno struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Fecha            string     `gorm:"type:varchar(10);not null;index" json:"fecha"` // YYYY-MM-DD
	Tipo             string     `gorm:"type:varchar(2);not null" json:"tipo"`         // AM | PM
	Empleado         string     `gorm:"not null;index" json:"empleado"`
	HoraInicio       time.Time  `gorm:"not null" json:"hora_inicio"`
	HoraFin          *time.Time `json:"hora_fin,omitempty"`
	Estado           string     `gorm:"type:varchar(10);not null;default:'abierto'" json:"estado"`
	ChecklistVersion int        `gorm:"not null;default:1" json:"checklist_version"`
	ChecklistFirmado bool       `gorm:"not null;default:false" json:"checklist_firmado"`
	FirmadoPor       *string    `json:"firmado_por,omitempty"`
	FirmadoAt        *time.Time `json:"firmado_at,omitempty"`
	CerradoPor       *string    `json:"cerrado_por,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Tareas      []TareaTurno  `gorm:"foreignKey:TurnoID;constraint:OnDelete:CASCADE" json:"tareas,omitempty"`
	MiseEnPlace []MiseEnPlace `gorm:"foreignKey:TurnoID;constraint:OnDelete:CASCADE" json:"mise_en_place,omitempty"`
}

func (Turno) TableName() string { return "turnos" }

func (t *Turno) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// TareaTurno is one checklist item, owned exclusively by its shift.
type TareaTurno struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TurnoID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"turno_id"`
	Orden        int        `gorm:"not null" json:"orden"`
	Nombre       string     `gorm:"not null" json:"nombre"`
	Completada   bool       `gorm:"not null;default:false" json:"completada"`
	CompletadaAt *time.Time `json:"completada_at,omitempty"`
}

func (TareaTurno) TableName() string { return "tareas_turno" }

func (t *TareaTurno) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// MiseEnPlace is the per-shift stock snapshot of one ingredient.
// CantidadInicial is frozen at shift open; CantidadActual is live.
// CantidadReabastecida sums the refills made during the shift.
type MiseEnPlace struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TurnoID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_mise_turno_ingrediente" json:"turno_id"`
	IngredienteID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_mise_turno_ingrediente" json:"ingrediente_id"`
	Unidad               string          `gorm:"type:varchar(20);not null" json:"unidad"`
	CantidadInicial      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad_inicial"`
	CantidadActual       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad_actual"`
	CantidadReabastecida decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"cantidad_reabastecida"`
	Porcentaje           int             `gorm:"not null" json:"porcentaje"`
	UpdatedAt            time.Time       `json:"updated_at"`

	Ingrediente *Ingrediente `gorm:"foreignKey:IngredienteID" json:"ingrediente,omitempty"`
}

func (MiseEnPlace) TableName() string { return "mise_en_place" }

func (m *MiseEnPlace) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

// RecalcularPorcentaje derives Porcentaje = actual * 100 / inicial.
func (m *MiseEnPlace) RecalcularPorcentaje() {
	m.Porcentaje = Porcentaje(m.CantidadActual, m.CantidadInicial)
}

// Consumido is what the shift used from this row: the opening quantity plus
// refills, minus what is left.
func (m *MiseEnPlace) Consumido() decimal.Decimal {
	return m.CantidadInicial.Add(m.CantidadReabastecida).Sub(m.CantidadActual)
}

// ChecklistCompletado is the snapshot taken when a checklist is signed.
// It does not follow later task toggles.
type ChecklistCompletado struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TurnoID           uuid.UUID `gorm:"type:uuid;not null;index" json:"turno_id"`
	Empleado          string    `gorm:"not null;index" json:"empleado"`
	TotalTareas       int       `gorm:"not null" json:"total_tareas"`
	TareasCompletadas int       `gorm:"not null" json:"tareas_completadas"`
	Porcentaje        int       `gorm:"not null" json:"porcentaje"`
	FirmadoPor        string    `gorm:"not null" json:"firmado_por"`
	CreatedAt         time.Time `json:"created_at"`
}

func (ChecklistCompletado) TableName() string { return "checklist_completados" }

func (c *ChecklistCompletado) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// ConsumoIngrediente is one line of ReporteTurno.IngredientesConsumidos.
type ConsumoIngrediente struct {
	IngredienteID uuid.UUID       `json:"ingrediente_id"`
	Nombre        string          `json:"nombre"`
	Unidad        string          `json:"unidad"`
	Consumido     decimal.Decimal `json:"consumido"`
}

// ReporteTurno is written exactly once, when the shift closes.
type ReporteTurno struct {
	ID                     uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	TurnoID                uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex" json:"turno_id"`
	TotalVendido           int                  `gorm:"not null;default:0" json:"total_vendido"`
	IngredientesConsumidos []ConsumoIngrediente `gorm:"serializer:json;type:text" json:"ingredientes_consumidos"`
	AlertasGeneradas       int64                `gorm:"not null;default:0" json:"alertas_generadas"`
	ChecklistCompletadoID  *uuid.UUID           `gorm:"type:uuid" json:"checklist_completado_id,omitempty"`
	ChecklistPorcentaje    *int                 `json:"checklist_porcentaje,omitempty"`
	CerradoPor             string               `gorm:"not null" json:"cerrado_por"`
	CreatedAt              time.Time            `json:"created_at"`
}

func (ReporteTurno) TableName() string { return "reportes_turno" }

func (r *ReporteTurno) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
