package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"gorm.io/gorm"
)

const (
	PremioProductoGratis    = "Producto gratis"
	PremioSecundario        = "Premio secundario"
	TasaRachaMinima         = 70
	fechaSemana             = "2006-01-02"
	historialPerfilLimite   = 20
	rankingLimitePorDefecto = 10
)

// umbralesNivel[i] is the cumulative points needed for level i+1.
var umbralesNivel = []int{0, 100, 250, 500, 1000, 2000}

type GamificacionService interface {
	// AcumularSemanaTx adds one shift's task outcome to the employee's
	// accumulator for the current business week.
	AcumularSemanaTx(ctx context.Context, tx *gorm.DB, empleado string, tareas []model.TareaTurno) error
	// CalcularPremiosSemanales converts every unprocessed accumulator of the
	// current week into rewards, points, streaks, levels and badges.
	CalcularPremiosSemanales(ctx context.Context) (*dto.CalcularPremiosResponse, error)
	ObtenerPerfil(ctx context.Context, empleado string) (*dto.PerfilEmpleadoResponse, error)
	Ranking(ctx context.Context, limit int) ([]model.PuntosEmpleado, error)
}

type gamificacionService struct {
	repo  repository.GamificacionRepository
	sink  event.Sink
	ahora func() time.Time
}

// NewGamificacionService builds the engine. ahora may be nil (wall clock).
func NewGamificacionService(repo repository.GamificacionRepository, sink event.Sink, ahora func() time.Time) GamificacionService {
	if ahora == nil {
		ahora = time.Now
	}
	return &gamificacionService{repo: repo, sink: sink, ahora: ahora}
}

// Semana returns the business week containing t: the most recent Tuesday on
// or before t through the following Saturday, as calendar dates.
func Semana(t time.Time) (inicio, fin time.Time) {
	y, m, d := t.Date()
	dia := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(dia.Weekday()) - int(time.Tuesday) + 7) % 7
	inicio = dia.AddDate(0, 0, -offset)
	return inicio, inicio.AddDate(0, 0, 4)
}

// PuntosPorTasa maps a completion rate to weekly points.
func PuntosPorTasa(tasa int) int {
	switch {
	case tasa >= 100:
		return 100
	case tasa >= 90:
		return 50
	case tasa >= 70:
		return 25
	case tasa >= 50:
		return 10
	}
	return 0
}

// NivelPorPuntos maps cumulative points to a level in 1..6.
func NivelPorPuntos(puntos int) int {
	nivel := 1
	for i, umbral := range umbralesNivel {
		if puntos >= umbral {
			nivel = i + 1
		}
	}
	return nivel
}

func premioPorTasa(tasa int) *string {
	var p string
	switch {
	case tasa >= 100:
		p = PremioProductoGratis
	case tasa >= 90:
		p = PremioSecundario
	default:
		return nil
	}
	return &p
}

func tasaCompletitud(completadas, total int) int {
	if total <= 0 {
		return 0
	}
	return completadas * 100 / total
}

func cumpleInsignia(ins model.Insignia, tasa int, p *model.PuntosEmpleado) bool {
	switch ins.TipoRequisito {
	case model.RequisitoTasaCompletitud:
		return tasa >= ins.ValorRequisito
	case model.RequisitoRacha:
		return p.RachaActual >= ins.ValorRequisito
	case model.RequisitoTareasTotales:
		return p.TareasTotales >= ins.ValorRequisito
	case model.RequisitoPremios:
		return p.PremiosGanados >= ins.ValorRequisito
	case model.RequisitoSemanasPerfectas:
		return p.SemanasPerfectas >= ins.ValorRequisito
	}
	return false
}

func (s *gamificacionService) AcumularSemanaTx(ctx context.Context, tx *gorm.DB, empleado string, tareas []model.TareaTurno) error {
	completadas := 0
	for _, t := range tareas {
		if t.Completada {
			completadas++
		}
	}
	inicio, fin := Semana(s.ahora())
	err := s.repo.AcumularTx(ctx, tx, &model.LogroSemanal{
		SemanaInicio:      inicio.Format(fechaSemana),
		SemanaFin:         fin.Format(fechaSemana),
		Empleado:          empleado,
		TareasCompletadas: completadas,
		TotalTareas:       len(tareas),
	})
	if err != nil {
		return fmt.Errorf("acumular semana: %w", err)
	}
	return nil
}

// ── CalcularPremiosSemanales ──────────────────────────────────────────────────
// Per pending row of the current week, inside one transaction:
//   tasa → premio (100: producto gratis, ≥90: secundario) and points (always)
//   racha += 1 when tasa ≥ 70, else 0; racha_maxima follows
//   new badges (each adds its bonus), then nivel from cumulative points
// The row is flagged so a second trigger in the same week credits nothing.
// A row that received shifts after an earlier run is pending again: the week
// is re-scored from its full counters and only the difference against what
// was already credited is applied. Rewards already granted are kept.

func (s *gamificacionService) CalcularPremiosSemanales(ctx context.Context) (*dto.CalcularPremiosResponse, error) {
	resp := &dto.CalcularPremiosResponse{
		Premios:         []dto.PremioOtorgado{},
		SubidasNivel:    []dto.SubidaNivel{},
		NuevasInsignias: []dto.InsigniaObtenida{},
	}
	inicio, _ := Semana(s.ahora())
	semana := inicio.Format(fechaSemana)

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pendientes, err := s.repo.PendientesTx(ctx, tx, semana)
		if err != nil {
			return fmt.Errorf("leer logros: %w", err)
		}
		if len(pendientes) == 0 {
			return nil
		}
		catalogo, err := s.repo.CatalogoTx(ctx, tx)
		if err != nil {
			return fmt.Errorf("leer insignias: %w", err)
		}

		for i := range pendientes {
			logro := &pendientes[i]
			tasa := tasaCompletitud(logro.TareasCompletadas, logro.TotalTareas)
			puntos := PuntosPorTasa(tasa)

			p, err := s.repo.FindOrCreatePuntosTx(ctx, tx, logro.Empleado)
			if err != nil {
				return fmt.Errorf("leer puntos de %s: %w", logro.Empleado, err)
			}
			nivelAnterior := p.Nivel
			if !logro.Acreditado {
				logro.RachaPrevia = p.RachaActual
				logro.RachaMaximaPrevia = p.RachaMaxima
			}
			acreditar(p, logro, tasa, puntos)

			premio, err := s.otorgarPremio(ctx, tx, logro, p, tasa, puntos, semana)
			if err != nil {
				return err
			}
			if premio != nil {
				resp.Premios = append(resp.Premios, *premio)
			}
			if err := s.repo.MarcarCalculadoTx(ctx, tx, logro); err != nil {
				return fmt.Errorf("marcar logro: %w", err)
			}

			nuevas, err := s.otorgarInsignias(ctx, tx, catalogo, tasa, p)
			if err != nil {
				return err
			}
			resp.NuevasInsignias = append(resp.NuevasInsignias, nuevas...)

			if nivel := NivelPorPuntos(p.PuntosTotales); nivel > p.Nivel {
				p.Nivel = nivel
			}
			if p.Nivel > nivelAnterior {
				resp.SubidasNivel = append(resp.SubidasNivel, dto.SubidaNivel{
					Empleado:      logro.Empleado,
					NivelAnterior: nivelAnterior,
					NivelNuevo:    p.Nivel,
				})
			}
			if err := s.repo.SavePuntosTx(ctx, tx, p); err != nil {
				return fmt.Errorf("guardar puntos: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var ev pendientes
	ev.add(event.PremiosCalculados, resp)
	for _, sn := range resp.SubidasNivel {
		ev.add(event.SubidaNivel, sn)
	}
	if len(resp.NuevasInsignias) > 0 {
		ev.add(event.InsigniasObtenidas, resp.NuevasInsignias)
	}
	ev.flush(ctx, s.sink)
	return resp, nil
}

// acreditar applies the week's score to p as a difference against what the
// row already credited, then records the new credited snapshot on logro.
// The streak is rebuilt from the value it had before the week was first scored.
func acreditar(p *model.PuntosEmpleado, logro *model.LogroSemanal, tasa, puntos int) {
	p.PuntosTotales = max(p.PuntosTotales+puntos-logro.PuntosAcreditados, 0)
	p.TareasTotales += logro.TareasCompletadas - logro.TareasAcreditadas

	if tasa >= TasaRachaMinima {
		p.RachaActual = logro.RachaPrevia + 1
	} else {
		p.RachaActual = 0
	}
	p.RachaMaxima = max(logro.RachaMaximaPrevia, p.RachaActual)

	perfecta := tasa >= 100
	switch {
	case perfecta && !logro.PerfectaAcreditada:
		p.SemanasPerfectas++
	case !perfecta && logro.PerfectaAcreditada:
		p.SemanasPerfectas--
	}

	logro.Acreditado = true
	logro.PuntosAcreditados = puntos
	logro.TareasAcreditadas = logro.TareasCompletadas
	logro.PerfectaAcreditada = perfecta
}

// otorgarPremio grants the week's reward when it is new or better than the one
// already granted. A lower rate on a later run never takes a reward back.
func (s *gamificacionService) otorgarPremio(ctx context.Context, tx *gorm.DB, logro *model.LogroSemanal, p *model.PuntosEmpleado, tasa, puntos int, semana string) (*dto.PremioOtorgado, error) {
	premio := premioPorTasa(tasa)
	if premio == nil || (logro.Premio != nil && rangoPremio(*logro.Premio) >= rangoPremio(*premio)) {
		return nil, nil
	}
	if logro.Premio == nil {
		p.PremiosGanados++
	}
	logro.Premio = premio
	if err := s.repo.CreateHistorialTx(ctx, tx, &model.HistorialPremio{
		Empleado:     logro.Empleado,
		SemanaInicio: semana,
		Premio:       *premio,
		Tasa:         tasa,
		Puntos:       puntos,
	}); err != nil {
		return nil, fmt.Errorf("registrar premio: %w", err)
	}
	return &dto.PremioOtorgado{
		Empleado:     logro.Empleado,
		SemanaInicio: semana,
		Premio:       *premio,
		Tasa:         tasa,
		Puntos:       puntos,
	}, nil
}

func rangoPremio(premio string) int {
	switch premio {
	case PremioProductoGratis:
		return 2
	case PremioSecundario:
		return 1
	}
	return 0
}

// otorgarInsignias grants every catalog badge p now qualifies for and does
// not own yet, adding each bonus to p.PuntosTotales.
func (s *gamificacionService) otorgarInsignias(ctx context.Context, tx *gorm.DB, catalogo []model.Insignia, tasa int, p *model.PuntosEmpleado) ([]dto.InsigniaObtenida, error) {
	propias, err := s.repo.InsigniasDeTx(ctx, tx, p.Empleado)
	if err != nil {
		return nil, fmt.Errorf("leer insignias de %s: %w", p.Empleado, err)
	}
	tiene := make(map[string]bool, len(propias))
	for _, ie := range propias {
		tiene[ie.InsigniaID.String()] = true
	}

	var out []dto.InsigniaObtenida
	for _, ins := range catalogo {
		if tiene[ins.ID.String()] || !cumpleInsignia(ins, tasa, p) {
			continue
		}
		if err := s.repo.OtorgarInsigniaTx(ctx, tx, &model.InsigniaEmpleado{
			Empleado:   p.Empleado,
			InsigniaID: ins.ID,
		}); err != nil {
			return nil, fmt.Errorf("otorgar insignia %s: %w", ins.Codigo, err)
		}
		p.PuntosTotales += ins.PuntosBonus
		out = append(out, dto.InsigniaObtenida{
			Empleado:    p.Empleado,
			Codigo:      ins.Codigo,
			Nombre:      ins.Nombre,
			PuntosBonus: ins.PuntosBonus,
		})
	}
	return out, nil
}

func (s *gamificacionService) ObtenerPerfil(ctx context.Context, empleado string) (*dto.PerfilEmpleadoResponse, error) {
	resp := &dto.PerfilEmpleadoResponse{}

	inicio, _ := Semana(s.ahora())
	logro, err := s.repo.FindLogro(ctx, empleado, inicio.Format(fechaSemana))
	switch {
	case err == nil:
		resp.SemanaActual = logro
	case !repository.IsNotFound(err):
		return nil, err
	}

	p, err := s.repo.FindPuntos(ctx, empleado)
	switch {
	case err == nil:
		resp.Puntos = *p
	case repository.IsNotFound(err):
		if resp.SemanaActual == nil {
			return nil, apierror.NotFound("Empleado %q sin actividad registrada", empleado)
		}
		resp.Puntos = model.PuntosEmpleado{Empleado: empleado, Nivel: 1}
	default:
		return nil, err
	}

	if resp.Insignias, err = s.repo.InsigniasDeTx(ctx, s.repo.DB(), empleado); err != nil {
		return nil, err
	}
	if resp.Historial, err = s.repo.Historial(ctx, empleado, historialPerfilLimite); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *gamificacionService) Ranking(ctx context.Context, limit int) ([]model.PuntosEmpleado, error) {
	if limit <= 0 || limit > 100 {
		limit = rankingLimitePorDefecto
	}
	return s.repo.Ranking(ctx, limit)
}
