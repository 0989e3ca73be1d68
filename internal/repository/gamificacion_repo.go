package repository

import (
	"context"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificacionRepository interface {
	// AcumularTx adds the row's counters to the (semana_inicio, empleado)
	// accumulator, inserting it on first use. An existing row becomes pending
	// again so counters added after a calculation are credited by the next one.
	AcumularTx(ctx context.Context, tx *gorm.DB, l *model.LogroSemanal) error
	PendientesTx(ctx context.Context, tx *gorm.DB, semanaInicio string) ([]model.LogroSemanal, error)
	// MarcarCalculadoTx stores the credited snapshot of l and flags it processed.
	MarcarCalculadoTx(ctx context.Context, tx *gorm.DB, l *model.LogroSemanal) error
	FindLogro(ctx context.Context, empleado, semanaInicio string) (*model.LogroSemanal, error)

	FindOrCreatePuntosTx(ctx context.Context, tx *gorm.DB, empleado string) (*model.PuntosEmpleado, error)
	SavePuntosTx(ctx context.Context, tx *gorm.DB, p *model.PuntosEmpleado) error
	FindPuntos(ctx context.Context, empleado string) (*model.PuntosEmpleado, error)
	Ranking(ctx context.Context, limit int) ([]model.PuntosEmpleado, error)

	CatalogoTx(ctx context.Context, tx *gorm.DB) ([]model.Insignia, error)
	InsigniasDeTx(ctx context.Context, tx *gorm.DB, empleado string) ([]model.InsigniaEmpleado, error)
	OtorgarInsigniaTx(ctx context.Context, tx *gorm.DB, ie *model.InsigniaEmpleado) error

	CreateHistorialTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPremio) error
	Historial(ctx context.Context, empleado string, limit int) ([]model.HistorialPremio, error)

	DB() *gorm.DB
}

type gamificacionRepo struct{ db *gorm.DB }

func NewGamificacionRepository(db *gorm.DB) GamificacionRepository {
	return &gamificacionRepo{db: db}
}

func (r *gamificacionRepo) DB() *gorm.DB { return r.db }

func (r *gamificacionRepo) AcumularTx(ctx context.Context, tx *gorm.DB, l *model.LogroSemanal) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "semana_inicio"}, {Name: "empleado"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tareas_completadas":   gorm.Expr("logros_semanales.tareas_completadas + excluded.tareas_completadas"),
			"total_tareas":         gorm.Expr("logros_semanales.total_tareas + excluded.total_tareas"),
			"recompensa_calculada": false,
			"updated_at":           gorm.Expr("excluded.updated_at"),
		}),
	}).Create(l).Error
}

func (r *gamificacionRepo) PendientesTx(ctx context.Context, tx *gorm.DB, semanaInicio string) ([]model.LogroSemanal, error) {
	var rows []model.LogroSemanal
	err := tx.WithContext(ctx).
		Where("semana_inicio = ? AND recompensa_calculada = ?", semanaInicio, false).
		Order("empleado ASC").
		Find(&rows).Error
	return rows, err
}

func (r *gamificacionRepo) MarcarCalculadoTx(ctx context.Context, tx *gorm.DB, l *model.LogroSemanal) error {
	return tx.WithContext(ctx).Model(&model.LogroSemanal{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"recompensa_calculada": true,
		"premio":               l.Premio,
		"acreditado":           true,
		"tareas_acreditadas":   l.TareasAcreditadas,
		"puntos_acreditados":   l.PuntosAcreditados,
		"perfecta_acreditada":  l.PerfectaAcreditada,
		"racha_previa":         l.RachaPrevia,
		"racha_maxima_previa":  l.RachaMaximaPrevia,
	}).Error
}

func (r *gamificacionRepo) FindLogro(ctx context.Context, empleado, semanaInicio string) (*model.LogroSemanal, error) {
	var l model.LogroSemanal
	err := r.db.WithContext(ctx).
		Where("empleado = ? AND semana_inicio = ?", empleado, semanaInicio).
		First(&l).Error
	return &l, err
}

func (r *gamificacionRepo) FindOrCreatePuntosTx(ctx context.Context, tx *gorm.DB, empleado string) (*model.PuntosEmpleado, error) {
	p := model.PuntosEmpleado{Empleado: empleado, Nivel: 1}
	err := tx.WithContext(ctx).Where("empleado = ?", empleado).FirstOrCreate(&p).Error
	return &p, err
}

func (r *gamificacionRepo) SavePuntosTx(ctx context.Context, tx *gorm.DB, p *model.PuntosEmpleado) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *gamificacionRepo) FindPuntos(ctx context.Context, empleado string) (*model.PuntosEmpleado, error) {
	var p model.PuntosEmpleado
	err := r.db.WithContext(ctx).Where("empleado = ?", empleado).First(&p).Error
	return &p, err
}

func (r *gamificacionRepo) Ranking(ctx context.Context, limit int) ([]model.PuntosEmpleado, error) {
	var out []model.PuntosEmpleado
	err := r.db.WithContext(ctx).
		Order("puntos_totales DESC, racha_actual DESC, empleado ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *gamificacionRepo) CatalogoTx(ctx context.Context, tx *gorm.DB) ([]model.Insignia, error) {
	var out []model.Insignia
	err := tx.WithContext(ctx).Order("tipo_requisito ASC, valor_requisito ASC").Find(&out).Error
	return out, err
}

func (r *gamificacionRepo) InsigniasDeTx(ctx context.Context, tx *gorm.DB, empleado string) ([]model.InsigniaEmpleado, error) {
	var out []model.InsigniaEmpleado
	err := tx.WithContext(ctx).Preload("Insignia").
		Where("empleado = ?", empleado).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *gamificacionRepo) OtorgarInsigniaTx(ctx context.Context, tx *gorm.DB, ie *model.InsigniaEmpleado) error {
	return tx.WithContext(ctx).Omit("Insignia").Create(ie).Error
}

func (r *gamificacionRepo) CreateHistorialTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPremio) error {
	return tx.WithContext(ctx).Create(h).Error
}

func (r *gamificacionRepo) Historial(ctx context.Context, empleado string, limit int) ([]model.HistorialPremio, error) {
	var out []model.HistorialPremio
	err := r.db.WithContext(ctx).
		Where("empleado = ?", empleado).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
