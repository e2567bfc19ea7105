package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"barpos/internal/infra"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ShiftReportWorker renders the close report PDF for a shift session.
type ShiftReportWorker struct {
	sessions    repository.SessionRepository
	appConfig   repository.AppConfigRepository
	storagePath string
}

func NewShiftReportWorker(
	sessions repository.SessionRepository,
	appConfig repository.AppConfigRepository,
	storagePath string,
) *ShiftReportWorker {
	return &ShiftReportWorker{sessions: sessions, appConfig: appConfig, storagePath: storagePath}
}

func (w *ShiftReportWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p ShiftReportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("shift report: bad payload: %w", err)
	}
	id, err := uuid.Parse(p.SessionID)
	if err != nil {
		return fmt.Errorf("shift report: bad session id: %w", err)
	}

	session, err := w.sessions.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("shift report: load session: %w", err)
	}

	businessName := "Bar"
	if cfg, err := w.appConfig.Get(ctx); err == nil {
		businessName = cfg.BusinessName
	}

	path, err := infra.GenerateShiftReportPDF(session, businessName, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("session_id", p.SessionID).Str("path", path).Msg("shift report generated")
	return nil
}

// ReportPath returns where the PDF for a session is (or will be) stored.
func (w *ShiftReportWorker) ReportPath(sessionID string) string {
	return fmt.Sprintf("%s/turno_%s.pdf", w.storagePath, sessionID)
}
