package handler

import (
	"net/http"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type RecetasHandler struct{ svc service.RecetaService }

func NewRecetasHandler(svc service.RecetaService) *RecetasHandler { return &RecetasHandler{svc: svc} }

// Crear godoc
// @Summary      Crear receta
// @Tags         recetas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearRecetaRequest true "Receta"
// @Success      201 {object} model.Receta
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/recetas [post]
func (h *RecetasHandler) Crear(c *gin.Context) {
	var req dto.CrearRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	receta, err := h.svc.CrearReceta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receta)
}

// Obtener godoc
// @Summary      Obtener receta
// @Tags         recetas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la receta"
// @Success      200 {object} model.Receta
// @Failure      404 {object} apierror.APIError
// @Router       /v1/recetas/{id} [get]
func (h *RecetasHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	receta, err := h.svc.ObtenerReceta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receta)
}
