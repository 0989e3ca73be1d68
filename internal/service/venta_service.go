package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	turnos     repository.TurnoRepository
	recetas    repository.RecetaRepository
	inventario InventarioService
	alertas    AlertaService
	reglas     config.Reglas
	sink       event.Sink
}

func NewVentaService(
	repo repository.VentaRepository,
	turnos repository.TurnoRepository,
	recetas repository.RecetaRepository,
	inventario InventarioService,
	alertas AlertaService,
	reglas config.Reglas,
	sink event.Sink,
) VentaService {
	return &ventaService{
		repo:       repo,
		turnos:     turnos,
		recetas:    recetas,
		inventario: inventario,
		alertas:    alertas,
		reglas:     reglas,
		sink:       sink,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One transaction:
//   1. shift exists and is open; recipe exists with at least one line
//   2. keep only the selected sauces when the recipe offers several
//   3. availability check over every charged ingredient (no writes yet)
//   4. per line, in recipe order: shift mise (when present), then global,
//      each followed by its alert evaluation
//   5. insert the sale
// Notifications go out after commit.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	turnoID, err := uuid.Parse(req.TurnoID)
	if err != nil {
		return nil, apierror.Validation("turno_id inválido")
	}
	recetaID, err := uuid.Parse(req.RecetaID)
	if err != nil {
		return nil, apierror.Validation("receta_id inválido")
	}
	if req.Cantidad < 1 {
		return nil, apierror.Validation("La cantidad debe ser al menos 1")
	}

	var (
		resp = &dto.VentaResponse{}
		ev   pendientes
	)
	err = runTx(ctx, s.turnos.DB(), func(tx *gorm.DB) error {
		turno, err := s.turnos.FindByIDTx(ctx, tx, turnoID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Turno %s no encontrado", turnoID)
			}
			return fmt.Errorf("leer turno: %w", err)
		}
		if turno.Estado != model.TurnoAbierto {
			return apierror.Conflict(apierror.CodeTurnoNoAbierto, "El turno %s no está abierto", turnoID)
		}

		receta, err := s.recetas.FindByIDTx(ctx, tx, recetaID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Receta %s no encontrada", recetaID)
			}
			return fmt.Errorf("leer receta: %w", err)
		}
		if len(receta.Ingredientes) == 0 {
			return apierror.Validation("La receta %q no tiene ingredientes", receta.Nombre)
		}

		lineas := filtrarSalsas(receta.Ingredientes, req.Salsas, s.reglas.CategoriaSalsa)
		unidades := decimal.NewFromInt(int64(req.Cantidad))

		if err := verificarDisponibilidad(lineas, unidades); err != nil {
			return err
		}
		if aviso := avisoStockBajo(lineas, s.reglas.PorcentajeStockBajo); aviso != "" {
			resp.Advertencia = &aviso
		}

		venta := &model.Venta{ID: uuid.New(), TurnoID: turnoID, RecetaID: recetaID, Cantidad: req.Cantidad}
		mov := Movimiento{
			Tipo:         model.MovimientoVenta,
			Actor:        turno.Empleado,
			Motivo:       fmt.Sprintf("Venta %d x %s", req.Cantidad, receta.Nombre),
			ReferenciaID: &venta.ID,
		}

		for _, l := range lineas {
			requerido := l.Cantidad.Mul(unidades)

			_, err := s.turnos.FindMiseTx(ctx, tx, turnoID, l.IngredienteID)
			switch {
			case err == nil:
				saldo, err := s.inventario.DescontarTx(ctx, tx, AmbitoMise(turnoID), l.IngredienteID, requerido, mov)
				if err != nil {
					return err
				}
				ev.add(event.MiseActualizada, saldo.Mise)
				alerta, err := s.alertas.EvaluarMiseTx(ctx, tx, saldo.Mise, saldo.Ingrediente)
				if err != nil {
					return err
				}
				if alerta != nil {
					resp.Alertas = append(resp.Alertas, *alerta)
				}
			case !repository.IsNotFound(err):
				return fmt.Errorf("leer mise en place: %w", err)
			}

			saldo, err := s.inventario.DescontarTx(ctx, tx, AmbitoGlobal(), l.IngredienteID, requerido, mov)
			if err != nil {
				return err
			}
			ev.add(event.IngredienteActualizado, saldo.Ingrediente)
			alerta, err := s.alertas.EvaluarTx(ctx, tx, saldo.Ingrediente)
			if err != nil {
				return err
			}
			if alerta != nil {
				resp.Alertas = append(resp.Alertas, *alerta)
			}
		}

		if err := s.repo.CreateTx(ctx, tx, venta); err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		venta.Receta = receta
		resp.Venta = venta
		return nil
	})
	if err != nil {
		return nil, err
	}

	final := pendientes{}
	final.add(event.VentaRegistrada, resp)
	final = append(final, ev...)
	for i := range resp.Alertas {
		final.add(event.AlertaCreada, &resp.Alertas[i])
	}
	final.flush(ctx, s.sink)
	return resp, nil
}

func (s *ventaService) ListarVentas(ctx context.Context, turnoID uuid.UUID) ([]model.Venta, error) {
	if _, err := s.turnos.FindByID(ctx, turnoID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Turno %s no encontrado", turnoID)
		}
		return nil, err
	}
	return s.repo.ListByTurno(ctx, turnoID)
}

// filtrarSalsas drops unselected sauce lines. It only applies when the recipe
// has more than one line in the sauce category and the caller named some.
func filtrarSalsas(lineas []model.RecetaIngrediente, elegidas []string, categoria string) []model.RecetaIngrediente {
	if len(elegidas) == 0 || categoria == "" {
		return lineas
	}
	esSalsa := func(l model.RecetaIngrediente) bool {
		return l.Ingrediente != nil && strings.EqualFold(l.Ingrediente.Categoria, categoria)
	}
	salsas := 0
	for _, l := range lineas {
		if esSalsa(l) {
			salsas++
		}
	}
	if salsas <= 1 {
		return lineas
	}

	set := make(map[string]bool, len(elegidas))
	for _, n := range elegidas {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	out := make([]model.RecetaIngrediente, 0, len(lineas))
	for _, l := range lineas {
		if !esSalsa(l) || set[strings.ToLower(l.Ingrediente.Nombre)] {
			out = append(out, l)
		}
	}
	return out
}

// verificarDisponibilidad sums the requirement per ingredient and returns a
// missing_ingredients error naming every ingredient that cannot cover it.
func verificarDisponibilidad(lineas []model.RecetaIngrediente, unidades decimal.Decimal) error {
	requerido := make(map[uuid.UUID]decimal.Decimal, len(lineas))
	for _, l := range lineas {
		requerido[l.IngredienteID] = requerido[l.IngredienteID].Add(l.Cantidad.Mul(unidades))
	}

	var faltantes []string
	vistos := make(map[uuid.UUID]bool, len(lineas))
	for _, l := range lineas {
		if vistos[l.IngredienteID] {
			continue
		}
		vistos[l.IngredienteID] = true
		ing := l.Ingrediente
		if ing == nil {
			return apierror.NotFound("Ingrediente %s de la receta no encontrado", l.IngredienteID)
		}
		if !ing.CantidadActual.IsPositive() || ing.CantidadActual.LessThan(requerido[l.IngredienteID]) {
			faltantes = append(faltantes, ing.Nombre)
		}
	}
	if len(faltantes) > 0 {
		return apierror.Insufficient(apierror.CodeMissingIngredients, faltantes,
			"Ingredientes insuficientes: %s", strings.Join(faltantes, ", "))
	}
	return nil
}

// avisoStockBajo lists charged ingredients at or below umbral percent, read
// before any deduction.
func avisoStockBajo(lineas []model.RecetaIngrediente, umbral int) string {
	var bajos []string
	vistos := make(map[uuid.UUID]bool, len(lineas))
	for _, l := range lineas {
		if vistos[l.IngredienteID] || l.Ingrediente == nil {
			continue
		}
		vistos[l.IngredienteID] = true
		if l.Ingrediente.PorcentajeActual <= umbral {
			bajos = append(bajos, fmt.Sprintf("%s (%d%%)", l.Ingrediente.Nombre, l.Ingrediente.PorcentajeActual))
		}
	}
	if len(bajos) == 0 {
		return ""
	}
	return "Stock bajo: " + strings.Join(bajos, ", ")
}
