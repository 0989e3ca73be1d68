package service

import (
	"context"
	"fmt"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Modos de reabastecimiento.
const (
	ModoAgregar  = "agregar"
	ModoAbsoluto = "absoluto"
)

// Ambito selects which stock row a ledger mutation touches: the warehouse
// row of an ingredient, or its mise en place row in one shift.
type Ambito struct {
	Nombre  string
	TurnoID uuid.UUID
}

func AmbitoGlobal() Ambito                { return Ambito{Nombre: model.AmbitoGlobal} }
func AmbitoMise(turnoID uuid.UUID) Ambito { return Ambito{Nombre: model.AmbitoMise, TurnoID: turnoID} }
func (a Ambito) esMise() bool             { return a.Nombre == model.AmbitoMise }

// Movimiento describes who and why for the audit row of a mutation.
type Movimiento struct {
	Tipo         string
	Actor        string
	Motivo       string
	ReferenciaID *uuid.UUID
}

// Saldo is the authoritative row after a mutation, re-read from the store.
// Mise is nil for the global scope.
type Saldo struct {
	Ingrediente *model.Ingrediente
	Mise        *model.MiseEnPlace
	Antes       decimal.Decimal
	Despues     decimal.Decimal
}

// InventarioService is the stock ledger plus the ingredient operations
// exposed over HTTP.
type InventarioService interface {
	// DescontarTx subtracts cantidad from the scope's current quantity,
	// clamping at zero. Called inside the caller's transaction.
	DescontarTx(ctx context.Context, tx *gorm.DB, ambito Ambito, ingredienteID uuid.UUID, cantidad decimal.Decimal, mov Movimiento) (*Saldo, error)
	// IncrementarTx adds cantidad; a global total is raised when exceeded.
	IncrementarTx(ctx context.Context, tx *gorm.DB, ambito Ambito, ingredienteID uuid.UUID, cantidad decimal.Decimal, mov Movimiento) (*Saldo, error)

	CrearIngrediente(ctx context.Context, req dto.CrearIngredienteRequest) (*model.Ingrediente, error)
	ListarIngredientes(ctx context.Context, filter dto.IngredienteFilter) ([]model.Ingrediente, error)
	ObtenerIngrediente(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error)
	ReabastecerIngrediente(ctx context.Context, id uuid.UUID, req dto.ReabastecerRequest, autorizadoPor string) (*model.Ingrediente, error)
	// ReabastecerMise adds to a mise en place row of an open shift.
	ReabastecerMise(ctx context.Context, turnoID, ingredienteID uuid.UUID, req dto.ReabastecerMiseRequest, autorizadoPor string) (*model.MiseEnPlace, error)
	AjustarPorcentaje(ctx context.Context, id uuid.UUID, req dto.AjustarPorcentajeRequest, actor string) (*model.Ingrediente, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	repo        repository.IngredienteRepository
	turnos      repository.TurnoRepository
	movimientos repository.MovimientoRepository
	alertas     AlertaService
	sink        event.Sink
}

func NewInventarioService(
	repo repository.IngredienteRepository,
	turnos repository.TurnoRepository,
	movimientos repository.MovimientoRepository,
	alertas AlertaService,
	sink event.Sink,
) InventarioService {
	return &inventarioService{
		repo:        repo,
		turnos:      turnos,
		movimientos: movimientos,
		alertas:     alertas,
		sink:        sink,
	}
}

// ── Ledger ────────────────────────────────────────────────────────────────────

func (s *inventarioService) DescontarTx(ctx context.Context, tx *gorm.DB, ambito Ambito, ingredienteID uuid.UUID, cantidad decimal.Decimal, mov Movimiento) (*Saldo, error) {
	return s.aplicar(ctx, tx, ambito, ingredienteID, solicitado(cantidad.Neg()), mov, func(actual decimal.Decimal) decimal.Decimal {
		return actual.Sub(cantidad)
	})
}

func (s *inventarioService) IncrementarTx(ctx context.Context, tx *gorm.DB, ambito Ambito, ingredienteID uuid.UUID, cantidad decimal.Decimal, mov Movimiento) (*Saldo, error) {
	return s.aplicar(ctx, tx, ambito, ingredienteID, solicitado(cantidad), mov, func(actual decimal.Decimal) decimal.Decimal {
		return actual.Add(cantidad)
	})
}

// establecerTx sets the global quantity to an absolute value.
func (s *inventarioService) establecerTx(ctx context.Context, tx *gorm.DB, ingredienteID uuid.UUID, valor decimal.Decimal, mov Movimiento) (*Saldo, error) {
	return s.aplicar(ctx, tx, AmbitoGlobal(), ingredienteID, decimal.NullDecimal{}, mov, func(decimal.Decimal) decimal.Decimal {
		return valor
	})
}

func solicitado(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// aplicar is the single mutation path of the ledger: read the row, compute
// the new quantity, clamp at zero, recompute the scope's percentage from its
// own pair, persist, append the audit row and re-read.
func (s *inventarioService) aplicar(
	ctx context.Context,
	tx *gorm.DB,
	ambito Ambito,
	ingredienteID uuid.UUID,
	pedido decimal.NullDecimal,
	mov Movimiento,
	nuevo func(actual decimal.Decimal) decimal.Decimal,
) (*Saldo, error) {
	ing, err := s.repo.FindByIDTx(ctx, tx, ingredienteID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Ingrediente %s no encontrado", ingredienteID)
		}
		return nil, fmt.Errorf("leer ingrediente: %w", err)
	}

	saldo := &Saldo{}
	if ambito.esMise() {
		mise, err := s.turnos.FindMiseTx(ctx, tx, ambito.TurnoID, ingredienteID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apierror.NotFound("%s no forma parte del mise en place del turno", ing.Nombre)
			}
			return nil, fmt.Errorf("leer mise en place: %w", err)
		}
		saldo.Antes = mise.CantidadActual
		mise.CantidadActual = decimal.Max(nuevo(mise.CantidadActual), decimal.Zero)
		if pedido.Valid && pedido.Decimal.IsPositive() {
			mise.CantidadReabastecida = mise.CantidadReabastecida.Add(pedido.Decimal)
		}
		mise.RecalcularPorcentaje()
		if err := s.turnos.UpdateMiseTx(ctx, tx, mise); err != nil {
			return nil, fmt.Errorf("actualizar mise en place: %w", err)
		}
		if saldo.Mise, err = s.turnos.FindMiseTx(ctx, tx, ambito.TurnoID, ingredienteID); err != nil {
			return nil, fmt.Errorf("releer mise en place: %w", err)
		}
		saldo.Despues = saldo.Mise.CantidadActual
		saldo.Ingrediente = ing
	} else {
		saldo.Antes = ing.CantidadActual
		ing.CantidadActual = decimal.Max(nuevo(ing.CantidadActual), decimal.Zero)
		if ing.CantidadActual.GreaterThan(ing.CantidadTotal) {
			ing.CantidadTotal = ing.CantidadActual
		}
		ing.RecalcularPorcentaje()
		if err := s.repo.UpdateStockTx(ctx, tx, ing); err != nil {
			return nil, fmt.Errorf("actualizar ingrediente: %w", err)
		}
		if saldo.Ingrediente, err = s.repo.FindByIDTx(ctx, tx, ingredienteID); err != nil {
			return nil, fmt.Errorf("releer ingrediente: %w", err)
		}
		saldo.Despues = saldo.Ingrediente.CantidadActual
	}

	// the requested delta; for absolute sets, the effective one
	delta := saldo.Despues.Sub(saldo.Antes)
	if pedido.Valid {
		delta = pedido.Decimal
	}
	m := &model.MovimientoInventario{
		IngredienteID: ingredienteID,
		Ambito:        ambito.Nombre,
		Tipo:          mov.Tipo,
		Cantidad:      delta,
		Antes:         saldo.Antes,
		Despues:       saldo.Despues,
		Actor:         mov.Actor,
		Motivo:        mov.Motivo,
		ReferenciaID:  mov.ReferenciaID,
	}
	if ambito.esMise() {
		turnoID := ambito.TurnoID
		m.TurnoID = &turnoID
	}
	if err := s.movimientos.CreateTx(ctx, tx, m); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	return saldo, nil
}

// ── Ingredientes ──────────────────────────────────────────────────────────────

func (s *inventarioService) CrearIngrediente(ctx context.Context, req dto.CrearIngredienteRequest) (*model.Ingrediente, error) {
	ing := &model.Ingrediente{
		Nombre:            req.Nombre,
		Unidad:            req.Unidad,
		Categoria:         req.Categoria,
		CantidadTotal:     req.CantidadTotal,
		CantidadActual:    req.CantidadTotal,
		UmbralCritico:     20,
		UmbralAdvertencia: 40,
		Activo:            true,
	}
	if req.UmbralCritico != nil {
		ing.UmbralCritico = *req.UmbralCritico
	}
	if req.UmbralAdvertencia != nil {
		ing.UmbralAdvertencia = *req.UmbralAdvertencia
	}
	if ing.UmbralCritico > ing.UmbralAdvertencia {
		return nil, apierror.Validation("El umbral crítico (%d) no puede superar al de advertencia (%d)", ing.UmbralCritico, ing.UmbralAdvertencia)
	}

	switch {
	case req.CantidadActual != nil:
		if req.CantidadActual.IsNegative() {
			return nil, apierror.Validation("La cantidad actual no puede ser negativa")
		}
		ing.CantidadActual = *req.CantidadActual
		if ing.CantidadActual.GreaterThan(ing.CantidadTotal) {
			ing.CantidadTotal = ing.CantidadActual
		}
		ing.RecalcularPorcentaje()
	case req.Porcentaje != nil:
		ing.FijarPorcentaje(*req.Porcentaje)
	default:
		ing.RecalcularPorcentaje()
	}

	if err := s.repo.Create(ctx, ing); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict(apierror.CodeDuplicado, "Ya existe un ingrediente llamado %q", req.Nombre)
		}
		return nil, fmt.Errorf("crear ingrediente: %w", err)
	}
	return ing, nil
}

func (s *inventarioService) ListarIngredientes(ctx context.Context, filter dto.IngredienteFilter) ([]model.Ingrediente, error) {
	return s.repo.List(ctx, filter)
}

func (s *inventarioService) ObtenerIngrediente(ctx context.Context, id uuid.UUID) (*model.Ingrediente, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Ingrediente %s no encontrado", id)
		}
		return nil, err
	}
	return ing, nil
}

// ── ReabastecerIngrediente ────────────────────────────────────────────────────
// "agregar" adds to the current quantity, "absoluto" replaces it. When the
// result exceeds the known total the total is raised to match.

func (s *inventarioService) ReabastecerIngrediente(ctx context.Context, id uuid.UUID, req dto.ReabastecerRequest, autorizadoPor string) (*model.Ingrediente, error) {
	modo := req.Modo
	if modo == "" {
		modo = ModoAgregar
	}
	if modo != ModoAgregar && modo != ModoAbsoluto {
		return nil, apierror.Validation("Modo de reabastecimiento inválido: %q", req.Modo)
	}
	if req.Cantidad.IsNegative() || (modo == ModoAgregar && !req.Cantidad.IsPositive()) {
		return nil, apierror.Validation("La cantidad debe ser mayor a cero")
	}
	if autorizadoPor == "" {
		return nil, apierror.Validation("Se requiere quién autoriza el reabastecimiento")
	}

	mov := Movimiento{Tipo: model.MovimientoReabastecimiento, Actor: autorizadoPor, Motivo: req.Motivo}
	var (
		saldo *Saldo
		ev    pendientes
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if modo == ModoAbsoluto {
			saldo, err = s.establecerTx(ctx, tx, id, req.Cantidad, mov)
		} else {
			saldo, err = s.IncrementarTx(ctx, tx, AmbitoGlobal(), id, req.Cantidad, mov)
		}
		if err != nil {
			return err
		}
		ev.add(event.IngredienteReabastecido, map[string]any{
			"ingrediente":    saldo.Ingrediente,
			"cantidad":       req.Cantidad,
			"modo":           modo,
			"anterior":       saldo.Antes,
			"autorizado_por": autorizadoPor,
		})
		ev.add(event.IngredienteActualizado, saldo.Ingrediente)
		alerta, err := s.alertas.EvaluarTx(ctx, tx, saldo.Ingrediente)
		if err != nil {
			return err
		}
		if alerta != nil {
			ev.add(event.AlertaCreada, alerta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ing := saldo.Ingrediente
	ev.flush(ctx, s.sink)
	return ing, nil
}

// ── ReabastecerMise ───────────────────────────────────────────────────────────
// Refills the shift-scope row so a shift that sold through its prep can reach
// the closing minimum again. The opening quantity stays the reference for the
// percentage. With DesdeInventario the quantity moves out of the global stock
// in the same transaction and must be available there.

func (s *inventarioService) ReabastecerMise(ctx context.Context, turnoID, ingredienteID uuid.UUID, req dto.ReabastecerMiseRequest, autorizadoPor string) (*model.MiseEnPlace, error) {
	if !req.Cantidad.IsPositive() {
		return nil, apierror.Validation("La cantidad debe ser mayor a cero")
	}
	if autorizadoPor == "" {
		return nil, apierror.Validation("Se requiere quién autoriza el reabastecimiento")
	}

	var (
		mise *model.MiseEnPlace
		ev   pendientes
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		turno, err := s.turnos.FindByIDTx(ctx, tx, turnoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Turno %s no encontrado", turnoID)
			}
			return err
		}
		if turno.Estado == model.TurnoCerrado {
			return apierror.Conflict(apierror.CodeTurnoCerrado, "El turno ya está cerrado; el mise en place no puede modificarse")
		}

		if req.DesdeInventario {
			ing, err := s.repo.FindByIDTx(ctx, tx, ingredienteID)
			if err != nil {
				if repository.IsNotFound(err) {
					return apierror.NotFound("Ingrediente %s no encontrado", ingredienteID)
				}
				return err
			}
			if ing.CantidadActual.LessThan(req.Cantidad) {
				return apierror.Insufficient(apierror.CodeMissingIngredients, []string{ing.Nombre},
					"Stock insuficiente de %s para reabastecer el mise en place", ing.Nombre)
			}
		}

		mov := Movimiento{Tipo: model.MovimientoReabastecimiento, Actor: autorizadoPor, Motivo: req.Motivo}
		saldo, err := s.IncrementarTx(ctx, tx, AmbitoMise(turnoID), ingredienteID, req.Cantidad, mov)
		if err != nil {
			return err
		}
		mise = saldo.Mise
		ev.add(event.MiseActualizada, mise)

		if req.DesdeInventario {
			mov.Tipo = model.MovimientoTraspaso
			global, err := s.DescontarTx(ctx, tx, AmbitoGlobal(), ingredienteID, req.Cantidad, mov)
			if err != nil {
				return err
			}
			ev.add(event.IngredienteActualizado, global.Ingrediente)
			alerta, err := s.alertas.EvaluarTx(ctx, tx, global.Ingrediente)
			if err != nil {
				return err
			}
			if alerta != nil {
				ev.add(event.AlertaCreada, alerta)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev.flush(ctx, s.sink)
	return mise, nil
}

// AjustarPorcentaje sets the stored percentage directly. With a known total
// the quantity is derived from it so the invariant keeps holding.
func (s *inventarioService) AjustarPorcentaje(ctx context.Context, id uuid.UUID, req dto.AjustarPorcentajeRequest, actor string) (*model.Ingrediente, error) {
	if req.Porcentaje < 0 || req.Porcentaje > 100 {
		return nil, apierror.Validation("El porcentaje debe estar entre 0 y 100")
	}

	var (
		ing *model.Ingrediente
		ev  pendientes
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		actual, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Ingrediente %s no encontrado", id)
			}
			return err
		}
		antes := actual.CantidadActual
		actual.FijarPorcentaje(req.Porcentaje)
		if err := s.repo.UpdateStockTx(ctx, tx, actual); err != nil {
			return fmt.Errorf("actualizar ingrediente: %w", err)
		}
		if err := s.movimientos.CreateTx(ctx, tx, &model.MovimientoInventario{
			IngredienteID: id,
			Ambito:        model.AmbitoGlobal,
			Tipo:          model.MovimientoAjuste,
			Cantidad:      actual.CantidadActual.Sub(antes),
			Antes:         antes,
			Despues:       actual.CantidadActual,
			Actor:         actor,
			Motivo:        req.Motivo,
		}); err != nil {
			return fmt.Errorf("registrar movimiento: %w", err)
		}
		if ing, err = s.repo.FindByIDTx(ctx, tx, id); err != nil {
			return err
		}
		alerta, err := s.alertas.EvaluarTx(ctx, tx, ing)
		if err != nil {
			return err
		}
		ev.add(event.IngredienteActualizado, ing)
		if alerta != nil {
			ev.add(event.AlertaCreada, alerta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ev.flush(ctx, s.sink)
	return ing, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rows, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.MovimientoListResponse{Data: rows, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
