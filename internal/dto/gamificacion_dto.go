package dto

import "github.com/Drozast/restaurant-management-system-sub000/internal/model"

// PremioOtorgado is one awarded weekly reward.
type PremioOtorgado struct {
	Empleado     string `json:"empleado"`
	SemanaInicio string `json:"semana_inicio"`
	Premio       string `json:"premio"`
	Tasa         int    `json:"tasa"`
	Puntos       int    `json:"puntos"`
}

type SubidaNivel struct {
	Empleado      string `json:"empleado"`
	NivelAnterior int    `json:"nivel_anterior"`
	NivelNuevo    int    `json:"nivel_nuevo"`
}

type InsigniaObtenida struct {
	Empleado    string `json:"empleado"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	PuntosBonus int    `json:"puntos_bonus"`
}

type CalcularPremiosResponse struct {
	Premios         []PremioOtorgado   `json:"premios"`
	SubidasNivel    []SubidaNivel      `json:"subidas_nivel"`
	NuevasInsignias []InsigniaObtenida `json:"nuevas_insignias"`
}

type PerfilEmpleadoResponse struct {
	Puntos       model.PuntosEmpleado     `json:"puntos"`
	SemanaActual *model.LogroSemanal      `json:"semana_actual,omitempty"`
	Insignias    []model.InsigniaEmpleado `json:"insignias"`
	Historial    []model.HistorialPremio  `json:"historial"`
}
