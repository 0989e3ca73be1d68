package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"
	"github.com/Drozast/restaurant-management-system-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TurnoService is the shift lifecycle: open with a mise en place, toggle
// checklist tasks, sign, close. Signing and closing are independent gates.
type TurnoService interface {
	AbrirTurno(ctx context.Context, req dto.AbrirTurnoRequest) (*model.Turno, error)
	MarcarTarea(ctx context.Context, turnoID, tareaID uuid.UUID, completada bool) (*model.TareaTurno, error)
	FirmarChecklist(ctx context.Context, turnoID uuid.UUID, rut, password string) (*dto.FirmarChecklistResponse, error)
	CerrarTurno(ctx context.Context, turnoID uuid.UUID, cerradoPor string) (*dto.CerrarTurnoResponse, error)

	TurnoActivo(ctx context.Context) (*model.Turno, error)
	ObtenerTurno(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	ObtenerReporte(ctx context.Context, turnoID uuid.UUID) (*model.ReporteTurno, error)
	Historial(ctx context.Context, filter dto.HistorialFilter) (*dto.TurnoListResponse, error)
}

type turnoService struct {
	repo         repository.TurnoRepository
	ingredientes repository.IngredienteRepository
	ventas       repository.VentaRepository
	alertas      repository.AlertaRepository
	auth         AuthService
	gamificacion GamificacionService
	checklist    config.Checklist
	reglas       config.Reglas
	sink         event.Sink
	dispatcher   *worker.Dispatcher // nil when Redis is not configured
	ahora        func() time.Time
}

func NewTurnoService(
	repo repository.TurnoRepository,
	ingredientes repository.IngredienteRepository,
	ventas repository.VentaRepository,
	alertas repository.AlertaRepository,
	auth AuthService,
	gamificacion GamificacionService,
	checklist config.Checklist,
	reglas config.Reglas,
	sink event.Sink,
	dispatcher *worker.Dispatcher,
	ahora func() time.Time,
) TurnoService {
	if sink == nil {
		sink = event.Nop
	}
	if ahora == nil {
		ahora = time.Now
	}
	return &turnoService{
		repo:         repo,
		ingredientes: ingredientes,
		ventas:       ventas,
		alertas:      alertas,
		auth:         auth,
		gamificacion: gamificacion,
		checklist:    checklist,
		reglas:       reglas,
		sink:         sink,
		dispatcher:   dispatcher,
		ahora:        ahora,
	}
}

func turnoNoEncontrado(id uuid.UUID) error {
	return apierror.NotFound("Turno %s no encontrado", id)
}

// ── AbrirTurno ────────────────────────────────────────────────────────────────

func (s *turnoService) AbrirTurno(ctx context.Context, req dto.AbrirTurnoRequest) (*model.Turno, error) {
	tipo := strings.ToUpper(strings.TrimSpace(req.Tipo))
	if tipo != "AM" && tipo != "PM" {
		return nil, apierror.Validation("Tipo de turno inválido: %q", req.Tipo)
	}
	empleado := strings.TrimSpace(req.Empleado)
	if empleado == "" {
		return nil, apierror.Validation("Se requiere el nombre del empleado")
	}
	ahora := s.ahora().UTC()
	fecha := req.Fecha
	if fecha == "" {
		fecha = ahora.Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return nil, apierror.Validation("Fecha inválida: %q", req.Fecha)
	}

	type item struct {
		id       uuid.UUID
		cantidad decimal.Decimal
		unidad   string
	}
	items := make([]item, 0, len(req.MiseEnPlace))
	vistos := make(map[uuid.UUID]bool, len(req.MiseEnPlace))
	for _, m := range req.MiseEnPlace {
		id, err := uuid.Parse(m.IngredienteID)
		if err != nil {
			return nil, apierror.Validation("ingrediente_id inválido: %s", m.IngredienteID)
		}
		if vistos[id] {
			return nil, apierror.Validation("Ingrediente repetido en el mise en place: %s", id)
		}
		if m.Cantidad.IsNegative() {
			return nil, apierror.Validation("La cantidad del mise en place no puede ser negativa")
		}
		vistos[id] = true
		items = append(items, item{id: id, cantidad: m.Cantidad, unidad: m.Unidad})
	}

	var creado *model.Turno
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		abierto, err := s.repo.FindAbiertoTx(ctx, tx)
		if err == nil {
			return apierror.Conflict(apierror.CodeTurnoYaAbierto,
				"Ya hay un turno abierto (%s %s, %s)", abierto.Fecha, abierto.Tipo, abierto.Empleado)
		}
		if !repository.IsNotFound(err) {
			return fmt.Errorf("buscar turno abierto: %w", err)
		}

		turno := &model.Turno{
			Fecha:            fecha,
			Tipo:             tipo,
			Empleado:         empleado,
			HoraInicio:       ahora,
			Estado:           model.TurnoAbierto,
			ChecklistVersion: s.checklist.Version,
		}
		for i, nombre := range s.checklist.Tareas {
			turno.Tareas = append(turno.Tareas, model.TareaTurno{Orden: i + 1, Nombre: nombre})
		}
		for _, it := range items {
			ing, err := s.ingredientes.FindByIDTx(ctx, tx, it.id)
			if err != nil {
				if repository.IsNotFound(err) {
					return apierror.NotFound("Ingrediente %s no encontrado", it.id)
				}
				return err
			}
			unidad := it.unidad
			if unidad == "" {
				unidad = ing.Unidad
			}
			mise := model.MiseEnPlace{
				IngredienteID:   it.id,
				Unidad:          unidad,
				CantidadInicial: it.cantidad,
				CantidadActual:  it.cantidad,
			}
			mise.RecalcularPorcentaje()
			turno.MiseEnPlace = append(turno.MiseEnPlace, mise)
		}

		if err := s.repo.CreateTx(ctx, tx, turno); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.Conflict(apierror.CodeTurnoYaAbierto, "Ya hay un turno abierto")
			}
			return fmt.Errorf("crear turno: %w", err)
		}
		creado, err = s.repo.FindByIDTx(ctx, tx, turno.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, event.New(event.TurnoAbierto, creado))
	return creado, nil
}

// ── MarcarTarea ───────────────────────────────────────────────────────────────

func (s *turnoService) MarcarTarea(ctx context.Context, turnoID, tareaID uuid.UUID, completada bool) (*model.TareaTurno, error) {
	var tarea *model.TareaTurno
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		turno, err := s.repo.FindByIDTx(ctx, tx, turnoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return turnoNoEncontrado(turnoID)
			}
			return err
		}
		if turno.Estado == model.TurnoCerrado {
			return apierror.Conflict(apierror.CodeTurnoCerrado, "El turno ya está cerrado; el checklist no puede modificarse")
		}

		tarea, err = s.repo.FindTareaTx(ctx, tx, turnoID, tareaID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Tarea %s no encontrada en el turno", tareaID)
			}
			return err
		}
		tarea.Completada = completada
		tarea.CompletadaAt = nil
		if completada {
			at := s.ahora().UTC()
			tarea.CompletadaAt = &at
		}
		return s.repo.UpdateTareaTx(ctx, tx, tarea)
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, event.New(event.TareaActualizada, tarea))
	return tarea, nil
}

// ── FirmarChecklist ───────────────────────────────────────────────────────────
// Checks, in order: credentials (active supervisor/administrador), already
// signed, incomplete tasks. On success the counts are snapshotted.

func (s *turnoService) FirmarChecklist(ctx context.Context, turnoID uuid.UUID, rut, password string) (*dto.FirmarChecklistResponse, error) {
	firmante, err := s.auth.VerificarFirmante(ctx, rut, password)
	if err != nil {
		return nil, err
	}

	resp := &dto.FirmarChecklistResponse{}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		turno, err := s.repo.FindByIDTx(ctx, tx, turnoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return turnoNoEncontrado(turnoID)
			}
			return err
		}
		if turno.ChecklistFirmado {
			return apierror.Conflict(apierror.CodeChecklistYaFirmado, "El checklist ya fue firmado por %s", deref(turno.FirmadoPor))
		}

		var pendientes []string
		for _, t := range turno.Tareas {
			if !t.Completada {
				pendientes = append(pendientes, t.Nombre)
			}
		}
		if len(pendientes) > 0 {
			return apierror.ValidationCode(apierror.CodeTareasIncompletas,
				"Hay %d tareas sin completar", len(pendientes)).WithItems(pendientes)
		}

		ahora := s.ahora().UTC()
		ok, err := s.repo.FirmarTx(ctx, tx, turnoID, firmante.Nombre, ahora)
		if err != nil {
			return fmt.Errorf("firmar checklist: %w", err)
		}
		if !ok {
			return apierror.Conflict(apierror.CodeChecklistYaFirmado, "El checklist ya fue firmado")
		}

		total := len(turno.Tareas)
		completado := &model.ChecklistCompletado{
			TurnoID:           turnoID,
			Empleado:          turno.Empleado,
			TotalTareas:       total,
			TareasCompletadas: total,
			Porcentaje:        tasaCompletitud(total, total),
			FirmadoPor:        firmante.Nombre,
		}
		if err := s.repo.CreateChecklistCompletadoTx(ctx, tx, completado); err != nil {
			return fmt.Errorf("guardar checklist completado: %w", err)
		}
		resp.Completado = completado
		resp.Turno, err = s.repo.FindByIDTx(ctx, tx, turnoID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, event.New(event.ChecklistFirmado, resp))
	return resp, nil
}

// ── CerrarTurno ───────────────────────────────────────────────────────────────
// One transaction:
//   1. reject when already closed
//   2. every mise row must keep actual/inicial ≥ PorcentajeMinimoCierre
//   3. estado cerrado + hora_fin, then the report (unique per shift)
//   4. weekly accumulation for the shift's employee
// The PDF/e-mail job is queued after commit.

func (s *turnoService) CerrarTurno(ctx context.Context, turnoID uuid.UUID, cerradoPor string) (*dto.CerrarTurnoResponse, error) {
	cerradoPor = strings.TrimSpace(cerradoPor)
	if cerradoPor == "" {
		return nil, apierror.Validation("Se requiere quién cierra el turno")
	}

	resp := &dto.CerrarTurnoResponse{}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		turno, err := s.repo.FindByIDTx(ctx, tx, turnoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return turnoNoEncontrado(turnoID)
			}
			return err
		}
		if turno.Estado == model.TurnoCerrado {
			return apierror.Conflict(apierror.CodeTurnoYaCerrado, "El turno ya fue cerrado")
		}

		mise, err := s.repo.ListMiseTx(ctx, tx, turnoID)
		if err != nil {
			return fmt.Errorf("leer mise en place: %w", err)
		}
		if faltantes := miseBajoMinimo(mise, s.reglas.PorcentajeMinimoCierre); len(faltantes) > 0 {
			nombres := make([]string, len(faltantes))
			for i, f := range faltantes {
				nombres[i] = fmt.Sprintf("%s (%d%%)", f.Nombre, f.Porcentaje)
			}
			return apierror.Insufficient(apierror.CodeMiseInsuficiente, faltantes,
				"Mise en place bajo el %d%% requerido: %s", s.reglas.PorcentajeMinimoCierre, strings.Join(nombres, ", "))
		}

		ahora := s.ahora().UTC()
		ok, err := s.repo.CerrarTx(ctx, tx, turnoID, cerradoPor, ahora)
		if err != nil {
			return fmt.Errorf("cerrar turno: %w", err)
		}
		if !ok {
			return apierror.Conflict(apierror.CodeTurnoYaCerrado, "El turno ya fue cerrado")
		}

		reporte, err := s.armarReporte(ctx, tx, turno, mise, cerradoPor)
		if err != nil {
			return err
		}
		if err := s.repo.CreateReporteTx(ctx, tx, reporte); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.Conflict(apierror.CodeTurnoYaCerrado, "El turno ya tiene reporte de cierre")
			}
			return fmt.Errorf("guardar reporte: %w", err)
		}

		if err := s.gamificacion.AcumularSemanaTx(ctx, tx, turno.Empleado, turno.Tareas); err != nil {
			return err
		}

		resp.Reporte = reporte
		resp.Turno, err = s.repo.FindByIDTx(ctx, tx, turnoID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sink.Publish(ctx, event.New(event.TurnoCerrado, resp))
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReporte(ctx, turnoID); err != nil {
			log.Warn().Err(err).Str("turno_id", turnoID.String()).Msg("turno: no se pudo encolar el reporte")
		}
	}
	return resp, nil
}

// miseBajoMinimo returns the rows below minimo percent. Rows that started
// empty cannot be measured and are skipped.
func miseBajoMinimo(rows []model.MiseEnPlace, minimo int) []dto.MiseFaltante {
	var out []dto.MiseFaltante
	cien := decimal.NewFromInt(100)
	for _, m := range rows {
		if !m.CantidadInicial.IsPositive() {
			continue
		}
		if m.CantidadActual.Mul(cien).GreaterThanOrEqual(m.CantidadInicial.Mul(decimal.NewFromInt(int64(minimo)))) {
			continue
		}
		nombre := m.IngredienteID.String()
		if m.Ingrediente != nil {
			nombre = m.Ingrediente.Nombre
		}
		out = append(out, dto.MiseFaltante{
			IngredienteID: m.IngredienteID.String(),
			Nombre:        nombre,
			Actual:        m.CantidadActual,
			Inicial:       m.CantidadInicial,
			Porcentaje:    model.Porcentaje(m.CantidadActual, m.CantidadInicial),
		})
	}
	return out
}

func (s *turnoService) armarReporte(ctx context.Context, tx *gorm.DB, turno *model.Turno, mise []model.MiseEnPlace, cerradoPor string) (*model.ReporteTurno, error) {
	vendido, err := s.ventas.SumCantidadTx(ctx, tx, turno.ID)
	if err != nil {
		return nil, fmt.Errorf("sumar ventas: %w", err)
	}
	alertas, err := s.alertas.CountDesdeTx(ctx, tx, turno.HoraInicio)
	if err != nil {
		return nil, fmt.Errorf("contar alertas: %w", err)
	}

	consumos := []model.ConsumoIngrediente{}
	for _, m := range mise {
		consumido := m.Consumido()
		if !consumido.IsPositive() {
			continue
		}
		c := model.ConsumoIngrediente{IngredienteID: m.IngredienteID, Unidad: m.Unidad, Consumido: consumido}
		if m.Ingrediente != nil {
			c.Nombre = m.Ingrediente.Nombre
		}
		consumos = append(consumos, c)
	}

	reporte := &model.ReporteTurno{
		TurnoID:                turno.ID,
		TotalVendido:           vendido,
		IngredientesConsumidos: consumos,
		AlertasGeneradas:       alertas,
		CerradoPor:             cerradoPor,
	}
	completado, err := s.repo.UltimoChecklistCompletadoTx(ctx, tx, turno.ID)
	switch {
	case err == nil:
		reporte.ChecklistCompletadoID = &completado.ID
		reporte.ChecklistPorcentaje = &completado.Porcentaje
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("leer checklist completado: %w", err)
	}
	return reporte, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *turnoService) TurnoActivo(ctx context.Context) (*model.Turno, error) {
	t, err := s.repo.FindAbierto(ctx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("No hay un turno abierto")
		}
		return nil, err
	}
	return t, nil
}

func (s *turnoService) ObtenerTurno(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, turnoNoEncontrado(id)
		}
		return nil, err
	}
	return t, nil
}

func (s *turnoService) ObtenerReporte(ctx context.Context, turnoID uuid.UUID) (*model.ReporteTurno, error) {
	r, err := s.repo.FindReporte(ctx, turnoID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("El turno %s no tiene reporte de cierre", turnoID)
		}
		return nil, err
	}
	return r, nil
}

func (s *turnoService) Historial(ctx context.Context, filter dto.HistorialFilter) (*dto.TurnoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	turnos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.TurnoListResponse{Data: turnos, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
