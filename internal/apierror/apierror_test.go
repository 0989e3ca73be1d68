package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs_Envuelto(t *testing.T) {
	base := Insufficient(CodeMissingIngredients, []string{"Queso"}, "Faltan %d ingredientes", 1)
	err := fmt.Errorf("registrar venta: %w", base)

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientResource, de.Kind)
	assert.Equal(t, "Faltan 1 ingredientes", de.Message)
	assert.Equal(t, KindInsufficientResource, KindOf(err))
}

func TestKindOf_ErrorComun(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestConstructores(t *testing.T) {
	assert.Equal(t, CodeValidation, Validation("x").Code)
	assert.Equal(t, CodeNotFound, NotFound("x").Code)
	assert.Equal(t, CodeCredencialesInvalid, Unauthorized("x").Code)
	assert.Equal(t, CodeTurnoYaAbierto, Conflict(CodeTurnoYaAbierto, "x").Code)

	e := ValidationCode(CodeTareasIncompletas, "%d pendientes", 2).WithItems([]string{"a", "b"})
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, []string{"a", "b"}, e.Items)

	env := FromError(e)
	assert.Equal(t, "2 pendientes", env.Detail)
	assert.Equal(t, CodeTareasIncompletas, env.Code)
	assert.Equal(t, e.Items, env.Items)
}
