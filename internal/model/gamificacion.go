package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogroSemanal accumulates one employee's task counters for one business week
// (Tuesday through Saturday). Rows are upserted additively on every shift close.
type LogroSemanal struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SemanaInicio        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_logro_semana_empleado" json:"semana_inicio"`
	SemanaFin           string    `gorm:"type:varchar(10);not null" json:"semana_fin"`
	Empleado            string    `gorm:"not null;uniqueIndex:idx_logro_semana_empleado" json:"empleado"`
	TareasCompletadas   int       `gorm:"not null;default:0" json:"tareas_completadas"`
	TotalTareas         int       `gorm:"not null;default:0" json:"total_tareas"`
	Premio              *string   `json:"premio,omitempty"`
	RecompensaCalculada bool      `gorm:"not null;default:false" json:"recompensa_calculada"`

	// What earlier calculations already credited for this week. A shift that
	// closes after a calculation clears RecompensaCalculada; the next run
	// credits only the difference.
	Acreditado         bool `gorm:"not null;default:false" json:"-"`
	TareasAcreditadas  int  `gorm:"not null;default:0" json:"tareas_acreditadas"`
	PuntosAcreditados  int  `gorm:"not null;default:0" json:"puntos_acreditados"`
	PerfectaAcreditada bool `gorm:"not null;default:false" json:"-"`
	RachaPrevia        int  `gorm:"not null;default:0" json:"-"`
	RachaMaximaPrevia  int  `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LogroSemanal) TableName() string { return "logros_semanales" }

func (l *LogroSemanal) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// PuntosEmpleado holds the cumulative gamification state of one employee.
type PuntosEmpleado struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Empleado         string    `gorm:"uniqueIndex;not null" json:"empleado"`
	PuntosTotales    int       `gorm:"not null;default:0" json:"puntos_totales"`
	RachaActual      int       `gorm:"not null;default:0" json:"racha_actual"`
	RachaMaxima      int       `gorm:"not null;default:0" json:"racha_maxima"`
	Nivel            int       `gorm:"not null;default:1" json:"nivel"`
	TareasTotales    int       `gorm:"not null;default:0" json:"tareas_totales"`
	SemanasPerfectas int       `gorm:"not null;default:0" json:"semanas_perfectas"`
	PremiosGanados   int       `gorm:"not null;default:0" json:"premios_ganados"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PuntosEmpleado) TableName() string { return "puntos_empleados" }

func (p *PuntosEmpleado) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// Requisitos de Insignia.
const (
	RequisitoTasaCompletitud  = "tasa_completitud"
	RequisitoRacha            = "racha"
	RequisitoTareasTotales    = "tareas_totales"
	RequisitoPremios          = "premios"
	RequisitoSemanasPerfectas = "semanas_perfectas"
)

// Insignia is a badge definition. Once unlocked it is never revoked.
type Insignia struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Codigo         string    `gorm:"uniqueIndex;not null" json:"codigo"`
	Nombre         string    `gorm:"not null" json:"nombre"`
	Descripcion    string    `json:"descripcion"`
	TipoRequisito  string    `gorm:"type:varchar(20);not null" json:"tipo_requisito"`
	ValorRequisito int       `gorm:"not null" json:"valor_requisito"`
	PuntosBonus    int       `gorm:"not null;default:0" json:"puntos_bonus"`
}

func (Insignia) TableName() string { return "insignias" }

func (i *Insignia) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// InsigniaEmpleado records an unlocked badge.
type InsigniaEmpleado struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Empleado   string    `gorm:"not null;uniqueIndex:idx_insignia_empleado" json:"empleado"`
	InsigniaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_insignia_empleado" json:"insignia_id"`
	CreatedAt  time.Time `json:"created_at"`

	Insignia *Insignia `gorm:"foreignKey:InsigniaID" json:"insignia,omitempty"`
}

func (InsigniaEmpleado) TableName() string { return "insignias_empleados" }

func (i *InsigniaEmpleado) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// HistorialPremio is the append-only log of awarded weekly rewards.
type HistorialPremio struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Empleado     string    `gorm:"not null;index" json:"empleado"`
	SemanaInicio string    `gorm:"type:varchar(10);not null" json:"semana_inicio"`
	Premio       string    `gorm:"not null" json:"premio"`
	Tasa         int       `gorm:"not null" json:"tasa"`
	Puntos       int       `gorm:"not null" json:"puntos"`
	CreatedAt    time.Time `json:"created_at"`
}

func (HistorialPremio) TableName() string { return "historial_premios" }

func (h *HistorialPremio) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}

// InsigniasPorDefecto is the badge catalog seeded at migration time.
func InsigniasPorDefecto() []Insignia {
	return []Insignia{
		{Codigo: "semana_90", Nombre: "Casi perfecto", Descripcion: "Completar al menos el 90% de las tareas en una semana", TipoRequisito: RequisitoTasaCompletitud, ValorRequisito: 90, PuntosBonus: 10},
		{Codigo: "semana_perfecta", Nombre: "Semana perfecta", Descripcion: "Completar el 100% de las tareas en una semana", TipoRequisito: RequisitoTasaCompletitud, ValorRequisito: 100, PuntosBonus: 25},
		{Codigo: "racha_3", Nombre: "En racha", Descripcion: "Tres semanas seguidas sobre el 70%", TipoRequisito: RequisitoRacha, ValorRequisito: 3, PuntosBonus: 30},
		{Codigo: "racha_5", Nombre: "Imparable", Descripcion: "Cinco semanas seguidas sobre el 70%", TipoRequisito: RequisitoRacha, ValorRequisito: 5, PuntosBonus: 75},
		{Codigo: "racha_10", Nombre: "Leyenda de la cocina", Descripcion: "Diez semanas seguidas sobre el 70%", TipoRequisito: RequisitoRacha, ValorRequisito: 10, PuntosBonus: 150},
		{Codigo: "tareas_100", Nombre: "Manos a la obra", Descripcion: "Completar 100 tareas en total", TipoRequisito: RequisitoTareasTotales, ValorRequisito: 100, PuntosBonus: 20},
		{Codigo: "tareas_500", Nombre: "Veterano", Descripcion: "Completar 500 tareas en total", TipoRequisito: RequisitoTareasTotales, ValorRequisito: 500, PuntosBonus: 100},
		{Codigo: "primer_premio", Nombre: "Primer premio", Descripcion: "Ganar un premio semanal", TipoRequisito: RequisitoPremios, ValorRequisito: 1, PuntosBonus: 15},
		{Codigo: "premios_10", Nombre: "Coleccionista", Descripcion: "Ganar 10 premios semanales", TipoRequisito: RequisitoPremios, ValorRequisito: 10, PuntosBonus: 100},
		{Codigo: "perfectas_5", Nombre: "Maestro del checklist", Descripcion: "Cinco semanas perfectas", TipoRequisito: RequisitoSemanasPerfectas, ValorRequisito: 5, PuntosBonus: 120},
	}
}
