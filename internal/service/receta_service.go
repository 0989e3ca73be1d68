package service

import (
	"context"
	"fmt"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
)

type RecetaService interface {
	CrearReceta(ctx context.Context, req dto.CrearRecetaRequest) (*model.Receta, error)
	ObtenerReceta(ctx context.Context, id uuid.UUID) (*model.Receta, error)
}

type recetaService struct {
	repo         repository.RecetaRepository
	ingredientes repository.IngredienteRepository
}

func NewRecetaService(repo repository.RecetaRepository, ingredientes repository.IngredienteRepository) RecetaService {
	return &recetaService{repo: repo, ingredientes: ingredientes}
}

func (s *recetaService) CrearReceta(ctx context.Context, req dto.CrearRecetaRequest) (*model.Receta, error) {
	if len(req.Ingredientes) == 0 {
		return nil, apierror.Validation("La receta debe tener al menos un ingrediente")
	}
	receta := &model.Receta{Nombre: req.Nombre, Tamano: req.Tamano, Activo: true}
	for i, l := range req.Ingredientes {
		id, err := uuid.Parse(l.IngredienteID)
		if err != nil {
			return nil, apierror.Validation("ingrediente_id inválido: %s", l.IngredienteID)
		}
		if !l.Cantidad.IsPositive() {
			return nil, apierror.Validation("La cantidad por unidad debe ser mayor a cero")
		}
		if _, err := s.ingredientes.FindByID(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return nil, apierror.NotFound("Ingrediente %s no encontrado", id)
			}
			return nil, err
		}
		receta.Ingredientes = append(receta.Ingredientes, model.RecetaIngrediente{
			IngredienteID: id,
			Orden:         i + 1,
			Cantidad:      l.Cantidad,
		})
	}
	if err := s.repo.Create(ctx, receta); err != nil {
		return nil, fmt.Errorf("crear receta: %w", err)
	}
	return s.repo.FindByID(ctx, receta.ID)
}

func (s *recetaService) ObtenerReceta(ctx context.Context, id uuid.UUID) (*model.Receta, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFound("Receta %s no encontrada", id)
		}
		return nil, err
	}
	return r, nil
}
