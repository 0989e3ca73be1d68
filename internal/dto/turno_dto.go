package dto

import (
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MiseItemRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"min=0"`
	Unidad        string          `json:"unidad"         validate:"max=20"` // defaults to the ingredient's unit
}

type AbrirTurnoRequest struct {
	Fecha       string            `json:"fecha"         validate:"omitempty,datetime=2006-01-02"` // empty = today
	Tipo        string            `json:"tipo"          validate:"required,oneof=AM PM"`
	Empleado    string            `json:"empleado"      validate:"required,min=1,max=100"`
	MiseEnPlace []MiseItemRequest `json:"mise_en_place" validate:"dive"`
}

type MarcarTareaRequest struct {
	Completada *bool `json:"completada" validate:"required"`
}

type FirmarChecklistRequest struct {
	RUT      string `json:"rut"      validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CerrarTurnoRequest struct {
	CerradoPor string `json:"cerrado_por" validate:"max=100"` // defaults to the authenticated user
}

// HistorialFilter is bound from the query string of GET /v1/turnos.
type HistorialFilter struct {
	Empleado string `form:"empleado"`
	Estado   string `form:"estado" validate:"omitempty,oneof=abierto cerrado"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TurnoListResponse struct {
	Data  []model.Turno `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type FirmarChecklistResponse struct {
	Turno      *model.Turno               `json:"turno"`
	Completado *model.ChecklistCompletado `json:"completado"`
}

type CerrarTurnoResponse struct {
	Turno   *model.Turno        `json:"turno"`
	Reporte *model.ReporteTurno `json:"reporte"`
}

// MiseFaltante is one item of a mise_insuficiente error.
type MiseFaltante struct {
	IngredienteID string          `json:"ingrediente_id"`
	Nombre        string          `json:"nombre"`
	Actual        decimal.Decimal `json:"actual"`
	Inicial       decimal.Decimal `json:"inicial"`
	Porcentaje    int             `json:"porcentaje"`
}
