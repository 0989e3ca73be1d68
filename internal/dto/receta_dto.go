package dto

import "github.com/shopspring/decimal"

type RecetaLineaRequest struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"required,gt=0"`
}

type CrearRecetaRequest struct {
	Nombre       string               `json:"nombre"       validate:"required,min=1,max=100"`
	Tamano       *string              `json:"tamano"       validate:"omitempty,oneof=S M L"`
	Ingredientes []RecetaLineaRequest `json:"ingredientes" validate:"required,min=1,dive"`
}
