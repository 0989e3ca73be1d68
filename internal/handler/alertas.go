package handler

import (
	"net/http"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler { return &AlertasHandler{svc: svc} }

// Listar godoc
// @Summary      Listar alertas
// @Description  Por defecto solo las activas; todas=true incluye las resueltas.
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Param        todas  query bool   false "Incluir resueltas"
// @Param        ambito query string false "global | mise_en_place"
// @Success      200 {object} dto.AlertaListResponse
// @Router       /v1/alertas [get]
func (h *AlertasHandler) Listar(c *gin.Context) {
	var filter dto.AlertaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarAlertas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resolver godoc
// @Summary      Resolver alerta
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la alerta"
// @Success      200 {object} model.Alerta
// @Failure      404 {object} apierror.APIError
// @Router       /v1/alertas/{id}/resolver [patch]
func (h *AlertasHandler) Resolver(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	alerta, err := h.svc.ResolverAlerta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerta)
}
