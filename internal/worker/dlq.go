package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DeadJob is what lands in dlq:{queue} once a job gives up.
type DeadJob struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// SendToDLQ parks a failed job. Write failures are only logged; the job is lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DeadJob{Queue: queue, Job: job, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("dlq: job parked")
}

// DLQLength is reported by the health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ReplayDLQ moves up to max parked jobs back onto queue with their attempt
// counter reset. Entries that no longer decode are discarded. It returns how
// many jobs were requeued.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	replayed := 0
	for replayed < max {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return replayed, err
		}

		var dead DeadJob
		if err := json.Unmarshal([]byte(raw), &dead); err != nil || dead.Job.Type == "" {
			log.Warn().Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}
		dead.Job.Attempts = 0
		if err := push(ctx, rdb, queue, dead.Job); err != nil {
			// put it back where it was so nothing is lost
			_ = rdb.RPush(ctx, DLQPrefix+queue, raw).Err()
			return replayed, err
		}
		replayed++
	}
	if replayed > 0 {
		log.Info().Str("queue", queue).Int("count", replayed).Msg("dlq: jobs replayed")
	}
	return replayed, nil
}
