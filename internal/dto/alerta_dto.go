package dto

import "github.com/Drozast/restaurant-management-system-sub000/internal/model"

// AlertaFilter is bound from the query string of GET /v1/alertas.
type AlertaFilter struct {
	Todas  bool   `form:"todas"` // include resolved alerts
	Ambito string `form:"ambito" validate:"omitempty,oneof=global mise_en_place"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type AlertaListResponse struct {
	Data  []model.Alerta `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
