package dto

import "github.com/Drozast/restaurant-management-system-sub000/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarVentaRequest struct {
	TurnoID  string `json:"turno_id"  validate:"required,uuid"`
	RecetaID string `json:"receta_id" validate:"required,uuid"`
	Cantidad int    `json:"cantidad"  validate:"required,min=1"`
	// Salsas restricts which sauce-category lines are charged when the recipe has several.
	Salsas []string `json:"salsas" validate:"omitempty,dive,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	Venta       *model.Venta   `json:"venta"`
	Advertencia *string        `json:"advertencia,omitempty"`
	Alertas     []model.Alerta `json:"alertas,omitempty"`
}
