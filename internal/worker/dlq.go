package worker

// Dead letter queue. A job that burns through its retries is parked in a
// per-queue Redis list (dlq:{queue}) with enough context to replay it by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadJob is the parked form of a failed job.
type DeadJob struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ parks a job that exhausted its retries.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	dead := DeadJob{
		Queue:    queue,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Attempts: job.Attempts,
		FailedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(dead)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job parked")
}

// DLQDepths reports how many jobs sit in each dead letter queue.
func DLQDepths(ctx context.Context, rdb *redis.Client) map[string]int64 {
	depths := make(map[string]int64, 2)
	for _, q := range []string{QueueShiftReport, QueueAlertEmail} {
		n, err := rdb.LLen(ctx, DLQPrefix+q).Result()
		if err != nil {
			continue
		}
		depths[q] = n
	}
	return depths
}
