package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/infra"
	"github.com/Drozast/restaurant-management-system-sub000/internal/model"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubMailer struct {
	enviados []EmailJobPayload
	err      error
}

func (m *stubMailer) SendReporte(to, subject, body, pdfPath string) error {
	if m.err != nil {
		return m.err
	}
	m.enviados = append(m.enviados, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: pdfPath})
	return nil
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ── EmailWorker ───────────────────────────────────────────────────────────────

func TestEmailWorker(t *testing.T) {
	ctx := context.Background()
	m := &stubMailer{}
	w := NewEmailWorker(m)

	err := w.Process(ctx, rawJSON(t, EmailJobPayload{ToEmail: "jefe@cocina.cl", Subject: "Cierre", PDFPath: "/tmp/r.pdf"}))
	require.NoError(t, err)
	require.Len(t, m.enviados, 1)
	assert.Equal(t, "/tmp/r.pdf", m.enviados[0].PDFPath)

	// no recipient: skipped, not retried
	require.NoError(t, w.Process(ctx, rawJSON(t, EmailJobPayload{})))
	assert.Len(t, m.enviados, 1)

	m.err = errors.New("smtp caído")
	assert.Error(t, w.Process(ctx, rawJSON(t, EmailJobPayload{ToEmail: "jefe@cocina.cl"})))

	assert.Error(t, NewEmailWorker(nil).Process(ctx, rawJSON(t, EmailJobPayload{ToEmail: "jefe@cocina.cl"})))
	assert.Error(t, w.Process(ctx, json.RawMessage(`{`)))
}

// ── ReporteWorker ─────────────────────────────────────────────────────────────

func turnoCerrado(t *testing.T) (repository.TurnoRepository, *model.Turno) {
	t.Helper()
	db, err := infra.NewDatabase(infra.DriverSQLite, filepath.Join(t.TempDir(), "cocina.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	fin := time.Now().UTC()
	cerradoPor := "Sofía"
	turno := &model.Turno{
		Fecha: "2026-03-04", Tipo: "PM", Empleado: "Carlos",
		HoraInicio: fin.Add(-8 * time.Hour), HoraFin: &fin,
		Estado: model.TurnoCerrado, CerradoPor: &cerradoPor,
	}
	require.NoError(t, db.Create(turno).Error)
	require.NoError(t, db.Create(&model.ReporteTurno{TurnoID: turno.ID, TotalVendido: 7, CerradoPor: cerradoPor}).Error)
	return repository.NewTurnoRepository(db), turno
}

func TestReporteWorker_GeneraPDF(t *testing.T) {
	repo, turno := turnoCerrado(t)
	dir := filepath.Join(t.TempDir(), "reportes")

	w := NewReporteWorker(repo, nil, dir, "")
	require.NoError(t, w.Process(context.Background(), rawJSON(t, ReporteJobPayload{TurnoID: turno.ID})))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Name(), "reporte_2026-03-04_PM_")
}

func TestReporteWorker_TurnoInexistente(t *testing.T) {
	repo, _ := turnoCerrado(t)
	w := NewReporteWorker(repo, nil, t.TempDir(), "")
	assert.Error(t, w.Process(context.Background(), rawJSON(t, ReporteJobPayload{TurnoID: uuid.New()})))
}

func TestReporteWorker_SinRedisNoEncolaCorreo(t *testing.T) {
	repo, turno := turnoCerrado(t)
	w := NewReporteWorker(repo, nil, t.TempDir(), "jefe@cocina.cl")
	err := w.Process(context.Background(), rawJSON(t, ReporteJobPayload{TurnoID: turno.ID}))
	assert.Error(t, err, "mail hand-off needs a dispatcher")
}

func TestDispatcher_SinRedis(t *testing.T) {
	var d *Dispatcher
	assert.Error(t, d.EnqueueReporte(context.Background(), uuid.New()))
	assert.Error(t, NewDispatcher(nil).EnqueueEmail(context.Background(), EmailJobPayload{}))
}
