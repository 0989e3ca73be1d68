package handler

import (
	"net/http"
	"strconv"

	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type GamificacionHandler struct{ svc service.GamificacionService }

func NewGamificacionHandler(svc service.GamificacionService) *GamificacionHandler {
	return &GamificacionHandler{svc: svc}
}

// CalcularPremios godoc
// @Summary      Calcular premios semanales
// @Description  Procesa los acumulados pendientes de la semana (martes a sabado): premios, puntos, rachas, niveles e insignias.
// @Tags         gamificacion
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CalcularPremiosResponse
// @Router       /v1/gamificacion/premios/calcular [post]
func (h *GamificacionHandler) CalcularPremios(c *gin.Context) {
	resp, err := h.svc.CalcularPremiosSemanales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Perfil godoc
// @Summary      Perfil de empleado
// @Tags         gamificacion
// @Produce      json
// @Security     BearerAuth
// @Param        nombre path string true "Nombre del empleado"
// @Success      200 {object} dto.PerfilEmpleadoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/gamificacion/empleados/{nombre} [get]
func (h *GamificacionHandler) Perfil(c *gin.Context) {
	resp, err := h.svc.ObtenerPerfil(c.Request.Context(), c.Param("nombre"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ranking godoc
// @Summary      Ranking por puntos
// @Tags         gamificacion
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Cantidad (default 10)"
// @Success      200 {array} model.PuntosEmpleado
// @Router       /v1/gamificacion/ranking [get]
func (h *GamificacionHandler) Ranking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	resp, err := h.svc.Ranking(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
