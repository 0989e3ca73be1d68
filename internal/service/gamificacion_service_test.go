package service

import (
	"testing"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemana(t *testing.T) {
	tests := []struct {
		name   string
		dia    string
		inicio string
		fin    string
	}{
		{"martes", "2026-03-03", "2026-03-03", "2026-03-07"},
		{"miercoles", "2026-03-04", "2026-03-03", "2026-03-07"},
		{"sabado", "2026-03-07", "2026-03-03", "2026-03-07"},
		{"domingo pertenece a la semana anterior", "2026-03-08", "2026-03-03", "2026-03-07"},
		{"lunes pertenece a la semana anterior", "2026-03-09", "2026-03-03", "2026-03-07"},
		{"cruce de mes", "2026-04-01", "2026-03-31", "2026-04-04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dia, err := time.Parse("2006-01-02", tt.dia)
			require.NoError(t, err)
			inicio, fin := Semana(dia.Add(15 * time.Hour))
			assert.Equal(t, tt.inicio, inicio.Format("2006-01-02"))
			assert.Equal(t, tt.fin, fin.Format("2006-01-02"))
			assert.Equal(t, time.Tuesday, inicio.Weekday())
		})
	}
}

func TestPuntosPorTasa(t *testing.T) {
	casos := map[int]int{100: 100, 99: 50, 90: 50, 89: 25, 70: 25, 69: 10, 50: 10, 49: 0, 0: 0}
	for tasa, want := range casos {
		assert.Equal(t, want, PuntosPorTasa(tasa), "tasa %d", tasa)
	}
}

func TestNivelPorPuntos(t *testing.T) {
	casos := map[int]int{0: 1, 99: 1, 100: 2, 249: 2, 250: 3, 500: 4, 999: 4, 1000: 5, 2000: 6, 10000: 6}
	for puntos, want := range casos {
		assert.Equal(t, want, NivelPorPuntos(puntos), "puntos %d", puntos)
	}
}

func TestTasaCompletitud_Trunca(t *testing.T) {
	assert.Equal(t, 66, tasaCompletitud(2, 3))
	assert.Equal(t, 100, tasaCompletitud(3, 3))
	assert.Equal(t, 0, tasaCompletitud(0, 0))
}

// cerrarSemana runs one shift for empleado with n of the 3 checklist tasks done.
func (e *testEnv) cerrarSemana(t *testing.T, empleado string, n int) {
	t.Helper()
	turno := e.abrirTurno(t, empleado)
	e.completarTareas(t, turno, n)
	_, err := e.turnos.CerrarTurno(e.ctx, turno.ID, empleado)
	require.NoError(t, err)
}

func TestCalcularPremios_DosSemanasPerfectas(t *testing.T) {
	env := newTestEnv(t)

	env.cerrarSemana(t, "Carlos", 3)
	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	require.Len(t, resp.Premios, 1)
	assert.Equal(t, PremioProductoGratis, resp.Premios[0].Premio)
	assert.Equal(t, "2026-03-03", resp.Premios[0].SemanaInicio)
	assert.Equal(t, 100, resp.Premios[0].Tasa)

	codigos := make([]string, 0, len(resp.NuevasInsignias))
	for _, ins := range resp.NuevasInsignias {
		codigos = append(codigos, ins.Codigo)
	}
	assert.ElementsMatch(t, []string{"semana_90", "semana_perfecta", "primer_premio"}, codigos)
	require.Len(t, resp.SubidasNivel, 1)
	assert.Equal(t, 1, resp.SubidasNivel[0].NivelAnterior)
	assert.Equal(t, 2, resp.SubidasNivel[0].NivelNuevo)

	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 150, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 1, perfil.Puntos.RachaActual)
	assert.Equal(t, 2, perfil.Puntos.Nivel)
	assert.Equal(t, 3, perfil.Puntos.TareasTotales)
	assert.Len(t, perfil.Insignias, 3)
	require.Len(t, perfil.Historial, 1)

	env.now = env.now.AddDate(0, 0, 7)
	env.cerrarSemana(t, "Carlos", 3)
	resp, err = env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	require.Len(t, resp.Premios, 1)
	assert.Equal(t, "2026-03-10", resp.Premios[0].SemanaInicio)
	assert.Empty(t, resp.NuevasInsignias)

	perfil, err = env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 250, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 2, perfil.Puntos.RachaActual)
	assert.Equal(t, 2, perfil.Puntos.RachaMaxima)
	assert.Equal(t, 3, perfil.Puntos.Nivel)
	assert.Equal(t, 2, perfil.Puntos.PremiosGanados)
	assert.Len(t, perfil.Historial, 2)

	assert.Len(t, env.rec.OfType(event.PremiosCalculados), 2)
	assert.Len(t, env.rec.OfType(event.SubidaNivel), 2)
}

func TestCalcularPremios_NoAcreditaDosVeces(t *testing.T) {
	env := newTestEnv(t)
	env.cerrarSemana(t, "Carlos", 3)

	_, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Premios)
	assert.Empty(t, resp.SubidasNivel)

	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 150, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 1, perfil.Puntos.PremiosGanados)
}

func TestCalcularPremios_AcumulaTurnosDeLaSemana(t *testing.T) {
	env := newTestEnv(t)
	// 3 + 1 of 6 tasks: tasa 66 → 10 points, no reward, streak reset
	env.cerrarSemana(t, "Carlos", 3)
	env.cerrarSemana(t, "Carlos", 1)

	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Premios)

	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 10, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 0, perfil.Puntos.RachaActual)
	assert.Equal(t, 1, perfil.Puntos.Nivel)
	assert.Equal(t, 4, perfil.Puntos.TareasTotales)
	assert.Empty(t, perfil.Historial)
	require.NotNil(t, perfil.SemanaActual)
	assert.Equal(t, 6, perfil.SemanaActual.TotalTareas)
}

func TestCalcularPremios_PremioSecundario(t *testing.T) {
	env := newTestEnv(t)
	// 9 shifts of 3 tasks, 25 of 27 done: 92%
	for i := 0; i < 9; i++ {
		n := 3
		if i < 2 {
			n = 2
		}
		env.cerrarSemana(t, "Ana", n)
	}

	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	require.Len(t, resp.Premios, 1)
	assert.Equal(t, PremioSecundario, resp.Premios[0].Premio)
	assert.Equal(t, 92, resp.Premios[0].Tasa)
	assert.Equal(t, 50, resp.Premios[0].Puntos)
}

func TestCalcularPremios_TurnosPosterioresAlCalculo(t *testing.T) {
	env := newTestEnv(t)
	env.cerrarSemana(t, "Carlos", 3)
	_, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)

	// same week, after the calculation: 6 of 6
	env.cerrarSemana(t, "Carlos", 3)
	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Premios, "the week's reward was already granted")
	assert.Empty(t, resp.NuevasInsignias)

	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 6, perfil.Puntos.TareasTotales)
	assert.Equal(t, 150, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 1, perfil.Puntos.RachaActual)
	assert.Equal(t, 1, perfil.Puntos.SemanasPerfectas)
	assert.Equal(t, 1, perfil.Puntos.PremiosGanados)
	require.NotNil(t, perfil.SemanaActual)
	assert.True(t, perfil.SemanaActual.RecompensaCalculada)
	assert.Equal(t, 6, perfil.SemanaActual.TareasAcreditadas)

	// a weak shift lowers the week to 6 of 9 (66%): points and streak follow,
	// the granted reward stays
	env.cerrarSemana(t, "Carlos", 0)
	_, err = env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)

	perfil, err = env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 6, perfil.Puntos.TareasTotales)
	assert.Equal(t, 60, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 0, perfil.Puntos.RachaActual)
	assert.Equal(t, 0, perfil.Puntos.SemanasPerfectas)
	assert.Equal(t, 1, perfil.Puntos.PremiosGanados)
	assert.Equal(t, 2, perfil.Puntos.Nivel)
	assert.Len(t, perfil.Historial, 1)
}

func TestCalcularPremios_PremioTrasRecalculo(t *testing.T) {
	env := newTestEnv(t)
	env.cerrarSemana(t, "Ana", 2)
	resp, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, resp.Premios)

	// 2 + 9 of 12 tasks: 91%
	for i := 0; i < 3; i++ {
		env.cerrarSemana(t, "Ana", 3)
	}
	resp, err = env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)
	require.Len(t, resp.Premios, 1)
	assert.Equal(t, PremioSecundario, resp.Premios[0].Premio)
	assert.Equal(t, 91, resp.Premios[0].Tasa)

	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Ana")
	require.NoError(t, err)
	// 50 for the week + semana_90 (10) + primer_premio (15)
	assert.Equal(t, 75, perfil.Puntos.PuntosTotales)
	assert.Equal(t, 11, perfil.Puntos.TareasTotales)
	assert.Equal(t, 1, perfil.Puntos.RachaActual)
	assert.Equal(t, 1, perfil.Puntos.PremiosGanados)
}

func TestObtenerPerfil_SinActividad(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.gamificacion.ObtenerPerfil(env.ctx, "Nadie")
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	// accumulated but not yet calculated
	env.cerrarSemana(t, "Carlos", 2)
	perfil, err := env.gamificacion.ObtenerPerfil(env.ctx, "Carlos")
	require.NoError(t, err)
	assert.Equal(t, 1, perfil.Puntos.Nivel)
	assert.Zero(t, perfil.Puntos.PuntosTotales)
	require.NotNil(t, perfil.SemanaActual)
	assert.Equal(t, 2, perfil.SemanaActual.TareasCompletadas)
}

func TestRanking(t *testing.T) {
	env := newTestEnv(t)
	env.cerrarSemana(t, "Carlos", 3)
	env.cerrarSemana(t, "Ana", 2)
	env.cerrarSemana(t, "Luis", 0)
	_, err := env.gamificacion.CalcularPremiosSemanales(env.ctx)
	require.NoError(t, err)

	ranking, err := env.gamificacion.Ranking(env.ctx, 0)
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, "Carlos", ranking[0].Empleado)
	assert.Equal(t, "Ana", ranking[1].Empleado)
	assert.Equal(t, "Luis", ranking[2].Empleado)

	top, err := env.gamificacion.Ranking(env.ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
