package handler

import (
	"net/http"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/middleware"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// AbrirTurno godoc
// @Summary      Abrir turno
// @Description  Crea el turno con su checklist y el mise en place inicial. Solo puede haber un turno abierto.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirTurnoRequest true "Turno"
// @Success      201  {object} model.Turno
// @Failure      409  {object} apierror.APIError
// @Router       /v1/turnos [post]
func (h *TurnosHandler) AbrirTurno(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	turno, err := h.svc.AbrirTurno(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, turno)
}

// TurnoActivo godoc
// @Summary      Turno abierto actual
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} model.Turno
// @Failure      404  {object} apierror.APIError
// @Router       /v1/turnos/activo [get]
func (h *TurnosHandler) TurnoActivo(c *gin.Context) {
	turno, err := h.svc.TurnoActivo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, turno)
}

// ObtenerTurno godoc
// @Summary      Obtener turno
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "UUID del turno"
// @Success      200 {object} model.Turno
// @Failure      404 {object} apierror.APIError
// @Router       /v1/turnos/{id} [get]
func (h *TurnosHandler) ObtenerTurno(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	turno, err := h.svc.ObtenerTurno(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, turno)
}

// Historial godoc
// @Summary      Historial de turnos
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        empleado query string false "Empleado"
// @Param        estado   query string false "abierto | cerrado"
// @Param        page     query int    false "Pagina"
// @Param        limit    query int    false "Tamano de pagina"
// @Success      200 {object} dto.TurnoListResponse
// @Router       /v1/turnos [get]
func (h *TurnosHandler) Historial(c *gin.Context) {
	var filter dto.HistorialFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarTarea godoc
// @Summary      Marcar tarea del checklist
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "UUID del turno"
// @Param        tareaId path  string  true  "UUID de la tarea"
// @Param        body body dto.MarcarTareaRequest true "Estado"
// @Success      200 {object} model.TareaTurno
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/turnos/{id}/tareas/{tareaId} [patch]
func (h *TurnosHandler) MarcarTarea(c *gin.Context) {
	turnoID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	tareaID, ok := paramUUID(c, "tareaId")
	if !ok {
		return
	}
	var req dto.MarcarTareaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tarea, err := h.svc.MarcarTarea(c.Request.Context(), turnoID, tareaID, *req.Completada)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tarea)
}

// FirmarChecklist godoc
// @Summary      Firmar checklist
// @Description  Un supervisor o administrador firma el checklist con sus credenciales. Todas las tareas deben estar completas.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.FirmarChecklistRequest true "Credenciales del firmante"
// @Success      200 {object} dto.FirmarChecklistResponse
// @Failure      400 {object} apierror.APIError
// @Failure      401 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/turnos/{id}/firmar [post]
func (h *TurnosHandler) FirmarChecklist(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.FirmarChecklistRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FirmarChecklist(c.Request.Context(), id, req.RUT, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CerrarTurno godoc
// @Summary      Cerrar turno
// @Description  Exige que cada item del mise en place conserve el porcentaje minimo configurado. Genera el reporte del turno.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.CerrarTurnoRequest false "Responsable del cierre"
// @Success      200 {object} dto.CerrarTurnoResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/turnos/{id}/cerrar [post]
func (h *TurnosHandler) CerrarTurno(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarTurnoRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if req.CerradoPor == "" {
		req.CerradoPor = middleware.Actor(c)
	}
	resp, err := h.svc.CerrarTurno(c.Request.Context(), id, req.CerradoPor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerReporte godoc
// @Summary      Reporte de cierre
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "UUID del turno"
// @Success      200 {object} model.ReporteTurno
// @Failure      404 {object} apierror.APIError
// @Router       /v1/turnos/{id}/reporte [get]
func (h *TurnosHandler) ObtenerReporte(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	rep, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
