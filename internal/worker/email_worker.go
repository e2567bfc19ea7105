package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"barpos/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertEmailWorker delivers alert notifications over SMTP. When the alert
// references a session whose report PDF already exists it goes along as an
// attachment.
type AlertEmailWorker struct {
	mailer      *infra.Mailer
	storagePath string
}

func NewAlertEmailWorker(mailer *infra.Mailer, storagePath string) *AlertEmailWorker {
	return &AlertEmailWorker{mailer: mailer, storagePath: storagePath}
}

func (w *AlertEmailWorker) Process(_ context.Context, payload json.RawMessage) error {
	var p AlertEmailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("alert email: bad payload: %w", err)
	}

	attachment := ""
	if p.SessionID != "" {
		candidate := fmt.Sprintf("%s/turno_%s.pdf", w.storagePath, p.SessionID)
		if _, err := os.Stat(candidate); err == nil {
			attachment = candidate
		}
	}

	if err := w.mailer.SendAlert(p.To, p.Subject, p.Body, attachment); err != nil {
		return fmt.Errorf("alert email: send: %w", err)
	}
	log.Info().Str("to", p.To).Str("subject", p.Subject).Msg("alert email sent")
	return nil
}
