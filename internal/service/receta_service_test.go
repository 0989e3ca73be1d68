package service

import (
	"testing"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearReceta_ConservaOrden(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "5000")
	salsa := env.crearIngrediente(t, "Salsa de tomate", "salsas", "2000")
	queso := env.crearIngrediente(t, "Mozzarella", "quesos", "3000")

	receta := env.crearReceta(t, "Pizza Margarita", linea{masa, "250"}, linea{salsa, "80"}, linea{queso, "120"})
	require.Len(t, receta.Ingredientes, 3)
	for i, want := range []string{"Masa", "Salsa de tomate", "Mozzarella"} {
		assert.Equal(t, i+1, receta.Ingredientes[i].Orden)
		require.NotNil(t, receta.Ingredientes[i].Ingrediente)
		assert.Equal(t, want, receta.Ingredientes[i].Ingrediente.Nombre)
	}
	assertDec(t, "80", receta.Ingredientes[1].Cantidad)

	got, err := env.recetas.ObtenerReceta(env.ctx, receta.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pizza Margarita", got.Nombre)
	assert.True(t, got.Activo)
}

func TestCrearReceta_Validaciones(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "5000")

	_, err := env.recetas.CrearReceta(env.ctx, dto.CrearRecetaRequest{Nombre: "Vacía"})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = env.recetas.CrearReceta(env.ctx, dto.CrearRecetaRequest{Nombre: "Cero", Ingredientes: []dto.RecetaLineaRequest{
		{IngredienteID: masa.ID.String(), Cantidad: dec("0")},
	}})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = env.recetas.CrearReceta(env.ctx, dto.CrearRecetaRequest{Nombre: "Fantasma", Ingredientes: []dto.RecetaLineaRequest{
		{IngredienteID: uuid.NewString(), Cantidad: dec("10")},
	}})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	_, err = env.recetas.ObtenerReceta(env.ctx, uuid.New())
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
