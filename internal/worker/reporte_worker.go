package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Drozast/restaurant-management-system-sub000/internal/infra"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReporteWorker renders the closing report of a shift to PDF and, when a
// recipient is configured, queues it for e-mail.
type ReporteWorker struct {
	turnos      repository.TurnoRepository
	dispatcher  *Dispatcher
	storagePath string
	destino     string
}

func NewReporteWorker(turnos repository.TurnoRepository, dispatcher *Dispatcher, storagePath, destino string) *ReporteWorker {
	return &ReporteWorker{turnos: turnos, dispatcher: dispatcher, storagePath: storagePath, destino: destino}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	turno, err := w.turnos.FindByID(ctx, payload.TurnoID)
	if err != nil {
		return fmt.Errorf("reporte_worker: turno %s: %w", payload.TurnoID, err)
	}
	reporte, err := w.turnos.FindReporte(ctx, payload.TurnoID)
	if err != nil {
		return fmt.Errorf("reporte_worker: reporte %s: %w", payload.TurnoID, err)
	}

	path, err := infra.GenerateReportePDF(turno, reporte, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("turno_id", turno.ID.String()).Str("pdf", path).Msg("reporte_worker: PDF generado")

	if w.destino == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.destino,
		Subject: fmt.Sprintf("Cierre de turno %s %s - %s", turno.Fecha, turno.Tipo, turno.Empleado),
		Body: fmt.Sprintf("Turno cerrado por %s.\nUnidades vendidas: %d\nAlertas generadas: %d\n",
			reporte.CerradoPor, reporte.TotalVendido, reporte.AlertasGeneradas),
		PDFPath: path,
	})
}
