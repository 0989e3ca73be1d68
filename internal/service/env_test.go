package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/infra"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Test environment: real SQLite file per test ──────────────────────────────

type testEnv struct {
	ctx context.Context
	db  *gorm.DB
	rec *event.Recorder
	now time.Time

	ingredientes repository.IngredienteRepository
	movimientos  repository.MovimientoRepository
	turnoRepo    repository.TurnoRepository
	alertaRepo   repository.AlertaRepository

	auth         AuthService
	alertas      AlertaService
	inventario   InventarioService
	recetas      RecetaService
	ventas       VentaService
	gamificacion GamificacionService
	turnos       TurnoService
}

var checklistPrueba = config.Checklist{Version: 1, Tareas: []string{"Encender hornos", "Revisar temperaturas", "Limpiar mesones"}}

const (
	rutSupervisor      = "11111111-1"
	passwordSupervisor = "supervisor123"
	rutCocinero        = "22222222-2"
	passwordCocinero   = "cocinero123"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := infra.NewDatabase(infra.DriverSQLite, filepath.Join(t.TempDir(), "cocina.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		ctx: context.Background(),
		db:  db,
		rec: event.NewRecorder(),
		// a Wednesday
		now: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}

	usuarios := repository.NewUsuarioRepository(db)
	env.ingredientes = repository.NewIngredienteRepository(db)
	env.movimientos = repository.NewMovimientoRepository(db)
	env.turnoRepo = repository.NewTurnoRepository(db)
	env.alertaRepo = repository.NewAlertaRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	env.auth = NewAuthService(usuarios, cfg)
	env.alertas = NewAlertaService(env.alertaRepo)
	env.inventario = NewInventarioService(env.ingredientes, env.turnoRepo, env.movimientos, env.alertas, env.rec)
	env.recetas = NewRecetaService(recetaRepo, env.ingredientes)
	env.ventas = NewVentaService(ventaRepo, env.turnoRepo, recetaRepo, env.inventario, env.alertas, config.ReglasPorDefecto(), env.rec)
	env.gamificacion = NewGamificacionService(repository.NewGamificacionRepository(db), env.rec, func() time.Time { return env.now })
	env.turnos = NewTurnoService(env.turnoRepo, env.ingredientes, ventaRepo, env.alertaRepo, env.auth,
		env.gamificacion, checklistPrueba, config.ReglasPorDefecto(), env.rec, nil, nil)

	_, err = env.auth.CrearUsuario(env.ctx, dto.CrearUsuarioRequest{
		RUT: rutSupervisor, Nombre: "Sofía Supervisora", Password: passwordSupervisor, Rol: model.RolSupervisor,
	})
	require.NoError(t, err)
	_, err = env.auth.CrearUsuario(env.ctx, dto.CrearUsuarioRequest{
		RUT: rutCocinero, Nombre: "Carlos Cocinero", Password: passwordCocinero, Rol: model.RolCocinero,
	})
	require.NoError(t, err)
	return env
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func (e *testEnv) crearIngrediente(t *testing.T, nombre, categoria, total string) *model.Ingrediente {
	t.Helper()
	ing, err := e.inventario.CrearIngrediente(e.ctx, dto.CrearIngredienteRequest{
		Nombre: nombre, Unidad: "g", Categoria: categoria, CantidadTotal: dec(total),
	})
	require.NoError(t, err)
	return ing
}

func (e *testEnv) ingrediente(t *testing.T, id uuid.UUID) *model.Ingrediente {
	t.Helper()
	ing, err := e.inventario.ObtenerIngrediente(e.ctx, id)
	require.NoError(t, err)
	return ing
}

type linea struct {
	ing      *model.Ingrediente
	cantidad string
}

func (e *testEnv) crearReceta(t *testing.T, nombre string, lineas ...linea) *model.Receta {
	t.Helper()
	req := dto.CrearRecetaRequest{Nombre: nombre}
	for _, l := range lineas {
		req.Ingredientes = append(req.Ingredientes, dto.RecetaLineaRequest{IngredienteID: l.ing.ID.String(), Cantidad: dec(l.cantidad)})
	}
	r, err := e.recetas.CrearReceta(e.ctx, req)
	require.NoError(t, err)
	return r
}

type mise struct {
	ing      *model.Ingrediente
	cantidad string
}

func (e *testEnv) abrirTurno(t *testing.T, empleado string, items ...mise) *model.Turno {
	t.Helper()
	req := dto.AbrirTurnoRequest{Fecha: "2026-03-04", Tipo: "AM", Empleado: empleado}
	for _, m := range items {
		req.MiseEnPlace = append(req.MiseEnPlace, dto.MiseItemRequest{IngredienteID: m.ing.ID.String(), Cantidad: dec(m.cantidad)})
	}
	turno, err := e.turnos.AbrirTurno(e.ctx, req)
	require.NoError(t, err)
	return turno
}

func (e *testEnv) vender(turno *model.Turno, receta *model.Receta, cantidad int, salsas ...string) (*dto.VentaResponse, error) {
	return e.ventas.RegistrarVenta(e.ctx, dto.RegistrarVentaRequest{
		TurnoID: turno.ID.String(), RecetaID: receta.ID.String(), Cantidad: cantidad, Salsas: salsas,
	})
}

func (e *testEnv) completarTareas(t *testing.T, turno *model.Turno, n int) {
	t.Helper()
	for i, tarea := range turno.Tareas {
		if i >= n {
			break
		}
		_, err := e.turnos.MarcarTarea(e.ctx, turno.ID, tarea.ID, true)
		require.NoError(t, err)
	}
}

func (e *testEnv) contarMovimientos(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.MovimientoInventario{}).Count(&n).Error)
	return n
}
