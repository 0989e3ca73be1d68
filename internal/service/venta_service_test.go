package service

import (
	"testing"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarVenta_Mozzarella(t *testing.T) {
	env := newTestEnv(t)
	actual := dec("80")
	mozza, err := env.inventario.CrearIngrediente(env.ctx, dto.CrearIngredienteRequest{
		Nombre: "Mozzarella", Unidad: "g", Categoria: "quesos", CantidadTotal: dec("100"), CantidadActual: &actual,
	})
	require.NoError(t, err)
	receta := env.crearReceta(t, "Pizza Margarita", linea{mozza, "60"})
	turno := env.abrirTurno(t, "Carlos", mise{mozza, "100"})

	resp, err := env.vender(turno, receta, 1)
	require.NoError(t, err)
	require.NotNil(t, resp.Venta)
	assert.Nil(t, resp.Advertencia)

	global := env.ingrediente(t, mozza.ID)
	assertDec(t, "20", global.CantidadActual)
	assert.Equal(t, 20, global.PorcentajeActual)

	m, err := env.turnoRepo.FindMiseTx(env.ctx, env.db, turno.ID, mozza.ID)
	require.NoError(t, err)
	assertDec(t, "40", m.CantidadActual)
	assert.Equal(t, 40, m.Porcentaje)

	require.Len(t, resp.Alertas, 2)
	porAmbito := map[string]model.Alerta{}
	for _, a := range resp.Alertas {
		porAmbito[a.Ambito] = a
	}
	assert.Equal(t, model.AlertaAdvertencia, porAmbito[model.AmbitoMise].Tipo)
	assert.Equal(t, 40, porAmbito[model.AmbitoMise].Porcentaje)
	assert.Equal(t, model.AlertaCritica, porAmbito[model.AmbitoGlobal].Tipo)

	assert.Len(t, env.rec.OfType(event.VentaRegistrada), 1)
	assert.Len(t, env.rec.OfType(event.MiseActualizada), 1)
	assert.Len(t, env.rec.OfType(event.AlertaCreada), 2)
	assert.EqualValues(t, 2, env.contarMovimientos(t))
}

func TestRegistrarVenta_FaltantesSinMutacion(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "1000")
	pocoQueso := dec("100")
	queso, err := env.inventario.CrearIngrediente(env.ctx, dto.CrearIngredienteRequest{
		Nombre: "Queso", Unidad: "g", Categoria: "quesos", CantidadTotal: dec("1000"), CantidadActual: &pocoQueso,
	})
	require.NoError(t, err)
	receta := env.crearReceta(t, "Pizza", linea{masa, "250"}, linea{queso, "300"})
	turno := env.abrirTurno(t, "Carlos", mise{masa, "500"})
	env.rec.Reset()

	_, err = env.vender(turno, receta, 1)
	require.Error(t, err)
	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindInsufficientResource, de.Kind)
	assert.Equal(t, apierror.CodeMissingIngredients, de.Code)
	assert.Equal(t, []string{"Queso"}, de.Items)

	assertDec(t, "1000", env.ingrediente(t, masa.ID).CantidadActual)
	assertDec(t, "100", env.ingrediente(t, queso.ID).CantidadActual)
	m, err := env.turnoRepo.FindMiseTx(env.ctx, env.db, turno.ID, masa.ID)
	require.NoError(t, err)
	assertDec(t, "500", m.CantidadActual)

	ventas, err := env.ventas.ListarVentas(env.ctx, turno.ID)
	require.NoError(t, err)
	assert.Empty(t, ventas)
	assert.Zero(t, env.contarMovimientos(t))
	assert.Empty(t, env.rec.Events())
}

func TestRegistrarVenta_DisponibilidadAgregadaPorCantidad(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "500")
	receta := env.crearReceta(t, "Calzone", linea{masa, "200"})
	turno := env.abrirTurno(t, "Carlos")

	_, err := env.vender(turno, receta, 3)
	assert.Equal(t, apierror.KindInsufficientResource, apierror.KindOf(err))

	resp, err := env.vender(turno, receta, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Venta.Cantidad)
	assertDec(t, "100", env.ingrediente(t, masa.ID).CantidadActual)
}

func TestRegistrarVenta_AdvertenciaStockBajo(t *testing.T) {
	env := newTestEnv(t)
	actual := dec("150")
	queso, err := env.inventario.CrearIngrediente(env.ctx, dto.CrearIngredienteRequest{
		Nombre: "Parmesano", Unidad: "g", Categoria: "quesos", CantidadTotal: dec("1000"), CantidadActual: &actual,
	})
	require.NoError(t, err)
	receta := env.crearReceta(t, "Pasta", linea{queso, "10"})
	turno := env.abrirTurno(t, "Carlos")

	resp, err := env.vender(turno, receta, 1)
	require.NoError(t, err)
	require.NotNil(t, resp.Advertencia)
	assert.Equal(t, "Stock bajo: Parmesano (15%)", *resp.Advertencia)
}

func TestRegistrarVenta_FiltroSalsas(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "1000")
	tomate := env.crearIngrediente(t, "Salsa de tomate", "salsas", "1000")
	bbq := env.crearIngrediente(t, "Salsa BBQ", "salsas", "1000")
	receta := env.crearReceta(t, "Pizza a elección", linea{masa, "200"}, linea{tomate, "50"}, linea{bbq, "40"})
	turno := env.abrirTurno(t, "Carlos")

	_, err := env.vender(turno, receta, 1, "salsa bbq")
	require.NoError(t, err)
	assertDec(t, "800", env.ingrediente(t, masa.ID).CantidadActual)
	assertDec(t, "1000", env.ingrediente(t, tomate.ID).CantidadActual)
	assertDec(t, "960", env.ingrediente(t, bbq.ID).CantidadActual)

	// no selection charges every sauce
	_, err = env.vender(turno, receta, 1)
	require.NoError(t, err)
	assertDec(t, "950", env.ingrediente(t, tomate.ID).CantidadActual)
	assertDec(t, "920", env.ingrediente(t, bbq.ID).CantidadActual)
}

func TestRegistrarVenta_SalsaUnicaSiempreSeCobra(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "1000")
	tomate := env.crearIngrediente(t, "Salsa de tomate", "salsas", "1000")
	receta := env.crearReceta(t, "Pizza", linea{masa, "200"}, linea{tomate, "50"})
	turno := env.abrirTurno(t, "Carlos")

	_, err := env.vender(turno, receta, 1, "Salsa BBQ")
	require.NoError(t, err)
	assertDec(t, "950", env.ingrediente(t, tomate.ID).CantidadActual)
}

func TestRegistrarVenta_SinMiseSoloDescuentaGlobal(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "1000")
	queso := env.crearIngrediente(t, "Queso", "quesos", "1000")
	receta := env.crearReceta(t, "Pizza", linea{masa, "100"}, linea{queso, "100"})
	turno := env.abrirTurno(t, "Carlos", mise{masa, "400"})

	_, err := env.vender(turno, receta, 1)
	require.NoError(t, err)

	m, err := env.turnoRepo.FindMiseTx(env.ctx, env.db, turno.ID, masa.ID)
	require.NoError(t, err)
	assertDec(t, "300", m.CantidadActual)
	assertDec(t, "900", env.ingrediente(t, queso.ID).CantidadActual)

	movs, err := env.inventario.ListarMovimientos(env.ctx, dto.MovimientoFilter{Ambito: model.AmbitoMise})
	require.NoError(t, err)
	assert.EqualValues(t, 1, movs.Total)
}

func TestRegistrarVenta_UnaAlertaActivaPorIngrediente(t *testing.T) {
	env := newTestEnv(t)
	queso := env.crearIngrediente(t, "Queso", "quesos", "100")
	receta := env.crearReceta(t, "Quesadilla", linea{queso, "30"})
	turno := env.abrirTurno(t, "Carlos")

	_, err := env.vender(turno, receta, 2) // 40% → warning
	require.NoError(t, err)
	resp, err := env.vender(turno, receta, 1) // 10% → would be critical, suppressed
	require.NoError(t, err)
	assert.Empty(t, resp.Alertas)

	activas, err := env.alertas.ListarAlertas(env.ctx, dto.AlertaFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, activas.Total)

	_, err = env.alertas.ResolverAlerta(env.ctx, activas.Data[0].ID)
	require.NoError(t, err)

	_, err = env.vender(turno, receta, 1) // 10g left, 30g needed
	assert.Equal(t, apierror.KindInsufficientResource, apierror.KindOf(err))

	_, err = env.inventario.ReabastecerIngrediente(env.ctx, queso.ID, dto.ReabastecerRequest{Cantidad: dec("100"), Modo: ModoAbsoluto}, "Sofía")
	require.NoError(t, err)
	_, err = env.vender(turno, receta, 2) // 40%: a new warning, since the last one was resolved
	require.NoError(t, err)
	activas, err = env.alertas.ListarAlertas(env.ctx, dto.AlertaFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, activas.Total)
	assert.Equal(t, model.AlertaAdvertencia, activas.Data[0].Tipo)

	todas, err := env.alertas.ListarAlertas(env.ctx, dto.AlertaFilter{Todas: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, todas.Total)
}

func TestRegistrarVenta_FalloDeAlertaNoAbortaLaVenta(t *testing.T) {
	env := newTestEnv(t)
	queso := env.crearIngrediente(t, "Queso", "quesos", "100")
	receta := env.crearReceta(t, "Quesadilla", linea{queso, "90"})
	turno := env.abrirTurno(t, "Carlos")

	require.NoError(t, env.db.Exec(`CREATE TRIGGER bloquear_alertas BEFORE INSERT ON alertas
		BEGIN SELECT RAISE(ABORT, 'alertas bloqueadas'); END`).Error)

	resp, err := env.vender(turno, receta, 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Alertas)
	assertDec(t, "10", env.ingrediente(t, queso.ID).CantidadActual)

	ventas, err := env.ventas.ListarVentas(env.ctx, turno.ID)
	require.NoError(t, err)
	assert.Len(t, ventas, 1)
}

func TestRegistrarVenta_TurnoCerradoORecetaInexistente(t *testing.T) {
	env := newTestEnv(t)
	masa := env.crearIngrediente(t, "Masa", "masas", "1000")
	receta := env.crearReceta(t, "Pan", linea{masa, "100"})
	turno := env.abrirTurno(t, "Carlos")

	_, err := env.ventas.RegistrarVenta(env.ctx, dto.RegistrarVentaRequest{
		TurnoID: turno.ID.String(), RecetaID: uuid.NewString(), Cantidad: 1,
	})
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	_, err = env.turnos.CerrarTurno(env.ctx, turno.ID, "Carlos")
	require.NoError(t, err)

	_, err = env.vender(turno, receta, 1)
	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeTurnoNoAbierto, de.Code)
	assertDec(t, "1000", env.ingrediente(t, masa.ID).CantidadActual)
}

func TestRegistrarVenta_FalloEnElDescuentoRevierteTodo(t *testing.T) {
	tests := []struct {
		name    string
		trigger string
	}{
		{
			name: "falla el segundo ingrediente",
			trigger: `CREATE TRIGGER bloquear_queso BEFORE UPDATE ON ingredientes
				WHEN NEW.nombre = 'Queso'
				BEGIN SELECT RAISE(ABORT, 'queso bloqueado'); END`,
		},
		{
			name: "falla el registro de la venta",
			trigger: `CREATE TRIGGER bloquear_ventas BEFORE INSERT ON ventas
				BEGIN SELECT RAISE(ABORT, 'ventas bloqueadas'); END`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			masa := env.crearIngrediente(t, "Masa", "masas", "1000")
			queso := env.crearIngrediente(t, "Queso", "quesos", "1000")
			receta := env.crearReceta(t, "Pizza", linea{masa, "900"}, linea{queso, "100"})
			turno := env.abrirTurno(t, "Carlos", mise{masa, "1000"}, mise{queso, "500"})
			env.rec.Reset()

			require.NoError(t, env.db.Exec(tt.trigger).Error)

			_, err := env.vender(turno, receta, 1)
			require.Error(t, err)
			_, esDominio := apierror.As(err)
			assert.False(t, esDominio)

			assertDec(t, "1000", env.ingrediente(t, masa.ID).CantidadActual)
			assertDec(t, "1000", env.ingrediente(t, queso.ID).CantidadActual)
			assert.Equal(t, 100, env.ingrediente(t, masa.ID).PorcentajeActual)
			for id, inicial := range map[uuid.UUID]string{masa.ID: "1000", queso.ID: "500"} {
				m, err := env.turnoRepo.FindMiseTx(env.ctx, env.db, turno.ID, id)
				require.NoError(t, err)
				assertDec(t, inicial, m.CantidadActual)
				assert.Equal(t, 100, m.Porcentaje)
			}

			ventas, err := env.ventas.ListarVentas(env.ctx, turno.ID)
			require.NoError(t, err)
			assert.Empty(t, ventas)
			assert.Zero(t, env.contarMovimientos(t))
			alertas, err := env.alertas.ListarAlertas(env.ctx, dto.AlertaFilter{Todas: true})
			require.NoError(t, err)
			assert.Zero(t, alertas.Total)
			assert.Empty(t, env.rec.Events())
		})
	}
}

func TestRegistrarVenta_AlertaDeMisePorTurno(t *testing.T) {
	env := newTestEnv(t)
	queso := env.crearIngrediente(t, "Queso", "quesos", "10000")
	receta := env.crearReceta(t, "Quesadilla", linea{queso, "60"})

	primero := env.abrirTurno(t, "Carlos", mise{queso, "100"})
	resp, err := env.vender(primero, receta, 1) // mise 40%
	require.NoError(t, err)
	require.Len(t, resp.Alertas, 1)
	assert.Equal(t, model.AmbitoMise, resp.Alertas[0].Ambito)

	_, err = env.inventario.ReabastecerMise(env.ctx, primero.ID, queso.ID, dto.ReabastecerMiseRequest{Cantidad: dec("60")}, "Carlos")
	require.NoError(t, err)
	_, err = env.turnos.CerrarTurno(env.ctx, primero.ID, "Carlos")
	require.NoError(t, err)

	// the first shift's alert is still unresolved
	segundo := env.abrirTurno(t, "Ana", mise{queso, "100"})
	resp, err = env.vender(segundo, receta, 1)
	require.NoError(t, err)
	require.Len(t, resp.Alertas, 1)
	require.NotNil(t, resp.Alertas[0].TurnoID)
	assert.Equal(t, segundo.ID, *resp.Alertas[0].TurnoID)

	activas, err := env.alertas.ListarAlertas(env.ctx, dto.AlertaFilter{Ambito: model.AmbitoMise})
	require.NoError(t, err)
	assert.EqualValues(t, 2, activas.Total)

	// still one per shift
	resp, err = env.vender(segundo, receta, 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Alertas)
}
