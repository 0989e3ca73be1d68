package dto

import (
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// IngredienteFilter is bound from the query string of GET /v1/ingredientes.
type IngredienteFilter struct {
	Categoria string `form:"categoria"`
	BajoStock bool   `form:"bajo_stock"` // only rows at or below their warning threshold
}

// MovimientoFilter is bound from the query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	IngredienteID string `form:"ingrediente_id" validate:"omitempty,uuid"`
	TurnoID       string `form:"turno_id"       validate:"omitempty,uuid"`
	Ambito        string `form:"ambito"         validate:"omitempty,oneof=global mise_en_place"`
	Tipo          string `form:"tipo"           validate:"omitempty,oneof=venta reabastecimiento ajuste traspaso"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoListResponse struct {
	Data  []model.MovimientoInventario `json:"data"`
	Total int64                        `json:"total"`
	Page  int                          `json:"page"`
	Limit int                          `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearIngredienteRequest creates a global stock row. CantidadActual defaults
// to CantidadTotal; when only Porcentaje is given the quantity is derived from it.
type CrearIngredienteRequest struct {
	Nombre            string           `json:"nombre"             validate:"required,min=1,max=100"`
	Unidad            string           `json:"unidad"             validate:"required,max=20"`
	Categoria         string           `json:"categoria"          validate:"required,max=50"`
	CantidadTotal     decimal.Decimal  `json:"cantidad_total"     validate:"min=0"`
	CantidadActual    *decimal.Decimal `json:"cantidad_actual"`
	Porcentaje        *int             `json:"porcentaje"         validate:"omitempty,min=0,max=100"`
	UmbralCritico     *int             `json:"umbral_critico"     validate:"omitempty,min=0,max=100"`
	UmbralAdvertencia *int             `json:"umbral_advertencia" validate:"omitempty,min=0,max=100"`
}

// ReabastecerRequest: Modo "agregar" adds Cantidad, "absoluto" sets it.
type ReabastecerRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	Modo     string          `json:"modo"     validate:"omitempty,oneof=agregar absoluto"`
	Motivo   string          `json:"motivo"   validate:"max=255"`
}

// ReabastecerMiseRequest refills one mise en place row of an open shift.
// With DesdeInventario the same quantity is taken from the global stock.
type ReabastecerMiseRequest struct {
	Cantidad        decimal.Decimal `json:"cantidad"         validate:"required,gt=0"`
	DesdeInventario bool            `json:"desde_inventario"`
	Motivo          string          `json:"motivo"           validate:"max=255"`
}

type AjustarPorcentajeRequest struct {
	Porcentaje int    `json:"porcentaje" validate:"min=0,max=100"`
	Motivo     string `json:"motivo"     validate:"max=255"`
}
