package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Shift-scope thresholds are fixed; global ones come from each ingredient.
const (
	MiseUmbralCritico     = 30
	MiseUmbralAdvertencia = 50
)

// AlertaService is the alert engine. EvaluarTx / EvaluarMiseTx run inside the
// caller's transaction and return the created alert, or nil when none was
// needed or an unresolved one already exists for the same (ingrediente, ambito),
// per shift for the mise en place scope.
type AlertaService interface {
	EvaluarTx(ctx context.Context, tx *gorm.DB, ing *model.Ingrediente) (*model.Alerta, error)
	EvaluarMiseTx(ctx context.Context, tx *gorm.DB, mise *model.MiseEnPlace, ing *model.Ingrediente) (*model.Alerta, error)
	ListarAlertas(ctx context.Context, filter dto.AlertaFilter) (*dto.AlertaListResponse, error)
	ResolverAlerta(ctx context.Context, id uuid.UUID) (*model.Alerta, error)
}

type alertaService struct {
	repo repository.AlertaRepository
}

func NewAlertaService(repo repository.AlertaRepository) AlertaService {
	return &alertaService{repo: repo}
}

// clasificar maps a percentage onto (tipo, prioridad). ok is false above both thresholds.
func clasificar(pct, critico, advertencia int) (tipo string, prioridad int, ok bool) {
	switch {
	case pct <= critico:
		return model.AlertaCritica, model.PrioridadCritica, true
	case pct <= advertencia:
		return model.AlertaAdvertencia, model.PrioridadAdvertencia, true
	}
	return "", 0, false
}

func (s *alertaService) EvaluarTx(ctx context.Context, tx *gorm.DB, ing *model.Ingrediente) (*model.Alerta, error) {
	tipo, prioridad, ok := clasificar(ing.PorcentajeActual, ing.UmbralCritico, ing.UmbralAdvertencia)
	if !ok {
		return nil, nil
	}
	nivel := "bajo"
	if tipo == model.AlertaCritica {
		nivel = "crítico"
	}
	return s.crear(ctx, tx, &model.Alerta{
		Tipo:          tipo,
		Mensaje:       fmt.Sprintf("Stock %s de %s: %d%% restante", nivel, ing.Nombre, ing.PorcentajeActual),
		IngredienteID: ing.ID,
		Ambito:        model.AmbitoGlobal,
		Porcentaje:    ing.PorcentajeActual,
		Prioridad:     prioridad,
	})
}

func (s *alertaService) EvaluarMiseTx(ctx context.Context, tx *gorm.DB, mise *model.MiseEnPlace, ing *model.Ingrediente) (*model.Alerta, error) {
	tipo, prioridad, ok := clasificar(mise.Porcentaje, MiseUmbralCritico, MiseUmbralAdvertencia)
	if !ok {
		return nil, nil
	}
	turnoID := mise.TurnoID
	return s.crear(ctx, tx, &model.Alerta{
		Tipo:          tipo,
		Mensaje:       fmt.Sprintf("Mise en place de %s al %d%% (%s de %s %s)", ing.Nombre, mise.Porcentaje, mise.CantidadActual.String(), mise.CantidadInicial.String(), mise.Unidad),
		IngredienteID: ing.ID,
		Ambito:        model.AmbitoMise,
		TurnoID:       &turnoID,
		Porcentaje:    mise.Porcentaje,
		Prioridad:     prioridad,
	})
}

// crear inserts a unless an unresolved alert already covers its
// (ingrediente, ambito, turno). The insert runs in a savepoint: a failure is logged
// and swallowed so the surrounding sale or restock still commits.
func (s *alertaService) crear(ctx context.Context, tx *gorm.DB, a *model.Alerta) (*model.Alerta, error) {
	_, err := s.repo.FindActivaTx(ctx, tx, a.IngredienteID, a.Ambito, a.TurnoID)
	if err == nil {
		return nil, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("buscar alerta activa: %w", err)
	}

	err = tx.Transaction(func(sp *gorm.DB) error {
		return s.repo.CreateTx(ctx, sp, a)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("ingrediente_id", a.IngredienteID.String()).
			Str("ambito", a.Ambito).
			Msg("alerta: no se pudo registrar la alerta")
		return nil, nil
	}
	return a, nil
}

func (s *alertaService) ListarAlertas(ctx context.Context, filter dto.AlertaFilter) (*dto.AlertaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AlertaListResponse{Data: rows, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ResolverAlerta marks an alert resolved, re-enabling alerts for its
// (ingrediente, ambito, turno). Resolving twice is a no-op.
func (s *alertaService) ResolverAlerta(ctx context.Context, id uuid.UUID) (*model.Alerta, error) {
	var out *model.Alerta
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		a, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apierror.NotFound("Alerta %s no encontrada", id)
			}
			return err
		}
		if !a.Resuelta {
			if err := s.repo.ResolverTx(ctx, tx, id, time.Now().UTC()); err != nil {
				return err
			}
		}
		out, err = s.repo.FindByIDTx(ctx, tx, id)
		return err
	})
	return out, err
}
