package worker

// retry_cron.go
// Background goroutine that periodically looks for closed sessions whose
// report PDF never materialized (crashed worker, DLQ'd job) and re-enqueues
// the generation job.

import (
	"context"
	"fmt"
	"os"
	"time"

	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	backfillTickInterval = 5 * time.Minute
	backfillWindow       = 24 * time.Hour
)

// BackfillConfig holds all dependencies for the backfill goroutine.
type BackfillConfig struct {
	Sessions    repository.SessionRepository
	Dispatcher  *Dispatcher
	StoragePath string
}

// StartReportBackfill launches a goroutine that ticks every 5 minutes and
// re-enqueues report jobs for recently closed sessions missing their PDF.
// It respects the context for graceful shutdown.
func StartReportBackfill(ctx context.Context, cfg BackfillConfig) {
	go func() {
		ticker := time.NewTicker(backfillTickInterval)
		defer ticker.Stop()

		log.Info().Msg("report_backfill: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("report_backfill: shutting down")
				return
			case <-ticker.C:
				processBackfill(ctx, cfg)
			}
		}
	}()
}

func processBackfill(ctx context.Context, cfg BackfillConfig) {
	now := time.Now()
	sessions, err := cfg.Sessions.ListClosedInRange(ctx, now.Add(-backfillWindow), now)
	if err != nil {
		log.Error().Err(err).Msg("report_backfill: failed to query closed sessions")
		return
	}

	for i := range sessions {
		s := &sessions[i]
		if s.Status != model.ShiftClosed || s.Report == nil {
			continue
		}
		pdfPath := fmt.Sprintf("%s/turno_%s.pdf", cfg.StoragePath, s.ID)
		if _, err := os.Stat(pdfPath); err == nil {
			continue
		}

		payload := ShiftReportPayload{SessionID: s.ID.String()}
		if err := cfg.Dispatcher.EnqueueShiftReport(ctx, payload); err != nil {
			log.Error().Err(err).Str("session_id", payload.SessionID).
				Msg("report_backfill: re-enqueue failed")
			continue
		}
		log.Warn().Str("session_id", payload.SessionID).
			Msg("report_backfill: missing report re-enqueued")
	}
}
