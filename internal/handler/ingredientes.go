package handler

import (
	"net/http"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/middleware"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type IngredientesHandler struct{ svc service.InventarioService }

func NewIngredientesHandler(svc service.InventarioService) *IngredientesHandler {
	return &IngredientesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear ingrediente
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearIngredienteRequest true "Ingrediente"
// @Success      201 {object} model.Ingrediente
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ingredientes [post]
func (h *IngredientesHandler) Crear(c *gin.Context) {
	var req dto.CrearIngredienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ing, err := h.svc.CrearIngrediente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

// Listar godoc
// @Summary      Listar ingredientes
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        categoria  query string false "Categoria"
// @Param        bajo_stock query bool   false "Solo bajo el umbral de advertencia"
// @Success      200 {array} model.Ingrediente
// @Router       /v1/ingredientes [get]
func (h *IngredientesHandler) Listar(c *gin.Context) {
	var filter dto.IngredienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, err := h.svc.ListarIngredientes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Obtener godoc
// @Summary      Obtener ingrediente
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del ingrediente"
// @Success      200 {object} model.Ingrediente
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ingredientes/{id} [get]
func (h *IngredientesHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	ing, err := h.svc.ObtenerIngrediente(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// Reabastecer godoc
// @Summary      Reabastecer ingrediente
// @Description  modo=agregar suma la cantidad; modo=absoluto la fija. No resuelve alertas abiertas.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del ingrediente"
// @Param        body body dto.ReabastecerRequest true "Reabastecimiento"
// @Success      200 {object} model.Ingrediente
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ingredientes/{id}/reabastecer [post]
func (h *IngredientesHandler) Reabastecer(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ReabastecerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ing, err := h.svc.ReabastecerIngrediente(c.Request.Context(), id, req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// ReabastecerMise godoc
// @Summary      Reabastecer mise en place
// @Description  Suma la cantidad al mise en place de un turno abierto. Con desde_inventario la descuenta del stock global.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id            path string true "UUID del turno"
// @Param        ingredienteId path string true "UUID del ingrediente"
// @Param        body body dto.ReabastecerMiseRequest true "Reabastecimiento"
// @Success      200 {object} model.MiseEnPlace
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/turnos/{id}/mise/{ingredienteId}/reabastecer [post]
func (h *IngredientesHandler) ReabastecerMise(c *gin.Context) {
	turnoID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	ingredienteID, ok := paramUUID(c, "ingredienteId")
	if !ok {
		return
	}
	var req dto.ReabastecerMiseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mise, err := h.svc.ReabastecerMise(c.Request.Context(), turnoID, ingredienteID, req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mise)
}

// AjustarPorcentaje godoc
// @Summary      Ajustar porcentaje
// @Description  Fija el porcentaje actual y recalcula la cantidad a partir del total.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del ingrediente"
// @Param        body body dto.AjustarPorcentajeRequest true "Porcentaje"
// @Success      200 {object} model.Ingrediente
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ingredientes/{id}/porcentaje [patch]
func (h *IngredientesHandler) AjustarPorcentaje(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarPorcentajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ing, err := h.svc.AjustarPorcentaje(c.Request.Context(), id, req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// ListarMovimientos godoc
// @Summary      Movimientos de inventario
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        ingrediente_id query string false "UUID del ingrediente"
// @Param        turno_id       query string false "UUID del turno"
// @Param        ambito         query string false "global | mise_en_place"
// @Param        tipo           query string false "venta | reabastecimiento | ajuste"
// @Param        page           query int    false "Pagina"
// @Param        limit          query int    false "Tamano de pagina"
// @Success      200 {object} dto.MovimientoListResponse
// @Router       /v1/inventario/movimientos [get]
func (h *IngredientesHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
