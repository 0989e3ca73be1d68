package repository

import (
	"context"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TurnoRepository owns shifts and everything scoped to one shift: checklist
// tasks, mise en place rows, signing snapshots and the closing report.
type TurnoRepository interface {
	// CreateTx inserts the shift, then its tasks and mise rows.
	CreateTx(ctx context.Context, tx *gorm.DB, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Turno, error)
	FindAbierto(ctx context.Context) (*model.Turno, error)
	FindAbiertoTx(ctx context.Context, tx *gorm.DB) (*model.Turno, error)
	// FirmarTx and CerrarTx are conditional updates: they report false when
	// the shift was already signed / closed.
	FirmarTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, firmadoPor string, at time.Time) (bool, error)
	CerrarTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cerradoPor string, at time.Time) (bool, error)
	List(ctx context.Context, filter dto.HistorialFilter) ([]model.Turno, int64, error)

	// ── Checklist ──
	FindTareaTx(ctx context.Context, tx *gorm.DB, turnoID, tareaID uuid.UUID) (*model.TareaTurno, error)
	UpdateTareaTx(ctx context.Context, tx *gorm.DB, t *model.TareaTurno) error
	ListTareasTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) ([]model.TareaTurno, error)
	CreateChecklistCompletadoTx(ctx context.Context, tx *gorm.DB, c *model.ChecklistCompletado) error
	UltimoChecklistCompletadoTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (*model.ChecklistCompletado, error)

	// ── Mise en place ──
	FindMiseTx(ctx context.Context, tx *gorm.DB, turnoID, ingredienteID uuid.UUID) (*model.MiseEnPlace, error)
	ListMiseTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) ([]model.MiseEnPlace, error)
	UpdateMiseTx(ctx context.Context, tx *gorm.DB, m *model.MiseEnPlace) error

	// ── Report ──
	CreateReporteTx(ctx context.Context, tx *gorm.DB, r *model.ReporteTurno) error
	FindReporte(ctx context.Context, turnoID uuid.UUID) (*model.ReporteTurno, error)

	DB() *gorm.DB
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) CreateTx(ctx context.Context, tx *gorm.DB, t *model.Turno) error {
	tx = tx.WithContext(ctx)
	if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
		return err
	}
	for i := range t.Tareas {
		t.Tareas[i].TurnoID = t.ID
	}
	for i := range t.MiseEnPlace {
		t.MiseEnPlace[i].TurnoID = t.ID
	}
	if len(t.Tareas) > 0 {
		if err := tx.Create(&t.Tareas).Error; err != nil {
			return err
		}
	}
	if len(t.MiseEnPlace) > 0 {
		if err := tx.Omit("Ingrediente").Create(&t.MiseEnPlace).Error; err != nil {
			return err
		}
	}
	return nil
}

func preloadTurno(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tareas", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }).
		Preload("MiseEnPlace.Ingrediente")
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *turnoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := preloadTurno(tx.WithContext(ctx)).Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindAbierto(ctx context.Context) (*model.Turno, error) {
	return r.FindAbiertoTx(ctx, r.db)
}

func (r *turnoRepo) FindAbiertoTx(ctx context.Context, tx *gorm.DB) (*model.Turno, error) {
	var t model.Turno
	err := preloadTurno(tx.WithContext(ctx)).Where("estado = ?", model.TurnoAbierto).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FirmarTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, firmadoPor string, at time.Time) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND checklist_firmado = ?", id, false).
		Updates(map[string]interface{}{
			"checklist_firmado": true,
			"firmado_por":       firmadoPor,
			"firmado_at":        at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *turnoRepo) CerrarTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cerradoPor string, at time.Time) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND estado = ?", id, model.TurnoAbierto).
		Updates(map[string]interface{}{
			"estado":      model.TurnoCerrado,
			"hora_fin":    at,
			"cerrado_por": cerradoPor,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *turnoRepo) List(ctx context.Context, filter dto.HistorialFilter) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Turno{})
	if filter.Empleado != "" {
		q = q.Where("empleado = ?", filter.Empleado)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("hora_inicio DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&turnos).Error
	return turnos, total, err
}

func (r *turnoRepo) FindTareaTx(ctx context.Context, tx *gorm.DB, turnoID, tareaID uuid.UUID) (*model.TareaTurno, error) {
	var t model.TareaTurno
	err := tx.WithContext(ctx).Where("id = ? AND turno_id = ?", tareaID, turnoID).First(&t).Error
	return &t, err
}

func (r *turnoRepo) UpdateTareaTx(ctx context.Context, tx *gorm.DB, t *model.TareaTurno) error {
	return tx.WithContext(ctx).Model(t).Updates(map[string]interface{}{
		"completada":    t.Completada,
		"completada_at": t.CompletadaAt,
	}).Error
}

func (r *turnoRepo) ListTareasTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) ([]model.TareaTurno, error) {
	var tareas []model.TareaTurno
	err := tx.WithContext(ctx).Where("turno_id = ?", turnoID).Order("orden ASC").Find(&tareas).Error
	return tareas, err
}

func (r *turnoRepo) CreateChecklistCompletadoTx(ctx context.Context, tx *gorm.DB, c *model.ChecklistCompletado) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *turnoRepo) UltimoChecklistCompletadoTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) (*model.ChecklistCompletado, error) {
	var c model.ChecklistCompletado
	err := tx.WithContext(ctx).Where("turno_id = ?", turnoID).Order("created_at DESC").First(&c).Error
	return &c, err
}

func (r *turnoRepo) FindMiseTx(ctx context.Context, tx *gorm.DB, turnoID, ingredienteID uuid.UUID) (*model.MiseEnPlace, error) {
	var m model.MiseEnPlace
	err := tx.WithContext(ctx).
		Where("turno_id = ? AND ingrediente_id = ?", turnoID, ingredienteID).
		First(&m).Error
	return &m, err
}

func (r *turnoRepo) ListMiseTx(ctx context.Context, tx *gorm.DB, turnoID uuid.UUID) ([]model.MiseEnPlace, error) {
	var rows []model.MiseEnPlace
	err := tx.WithContext(ctx).Preload("Ingrediente").Where("turno_id = ?", turnoID).Find(&rows).Error
	return rows, err
}

func (r *turnoRepo) UpdateMiseTx(ctx context.Context, tx *gorm.DB, m *model.MiseEnPlace) error {
	return tx.WithContext(ctx).Model(m).Updates(map[string]interface{}{
		"cantidad_actual":       m.CantidadActual,
		"cantidad_reabastecida": m.CantidadReabastecida,
		"porcentaje":            m.Porcentaje,
	}).Error
}

func (r *turnoRepo) CreateReporteTx(ctx context.Context, tx *gorm.DB, rep *model.ReporteTurno) error {
	return tx.WithContext(ctx).Create(rep).Error
}

func (r *turnoRepo) FindReporte(ctx context.Context, turnoID uuid.UUID) (*model.ReporteTurno, error) {
	var rep model.ReporteTurno
	err := r.db.WithContext(ctx).Where("turno_id = ?", turnoID).First(&rep).Error
	return &rep, err
}
