package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// batchSize caps how many queued check-ins insert in one transaction.
const batchSize = 100

// CheckinWorker consumes the kiosk check-in queue and writes entry
// logs in batches, then notifies live dashboards. Batching keeps the
// kiosk ack path off the database entirely.
type CheckinWorker struct {
	logRepo *repository.EntryLogRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewCheckinWorker creates a new CheckinWorker.
func NewCheckinWorker(logRepo *repository.EntryLogRepository, rdb *redis.Client, log zerolog.Logger) *CheckinWorker {
	return &CheckinWorker{
		logRepo: logRepo,
		rdb:     rdb,
		log:     log.With().Str("component", "checkin_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *CheckinWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Flush whatever is still queued before exit.
			w.processBatch(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

// processNext blocks for the first queued event, then drains up to a
// batch and inserts everything in one transaction.
func (w *CheckinWorker) processNext(ctx context.Context) {
	queue := config.CacheKey.CheckinQueueKey()

	result, err := w.rdb.BRPop(ctx, time.Second, queue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BRPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	raw := [][]byte{[]byte(result[1])}
	for len(raw) < batchSize {
		item, err := w.rdb.RPop(ctx, queue).Result()
		if err != nil {
			break
		}
		raw = append(raw, []byte(item))
	}

	if err := w.persist(ctx, raw); err != nil {
		w.log.Error().Err(err).Int("batch", len(raw)).Msg("Persist error, requeueing in 5s")
		// Push the whole batch back for retry.
		for _, item := range raw {
			w.rdb.LPush(ctx, queue, item)
		}
		time.Sleep(5 * time.Second)
	}
}

// processBatch drains the queue completely, used on shutdown.
func (w *CheckinWorker) processBatch(ctx context.Context) {
	queue := config.CacheKey.CheckinQueueKey()

	var raw [][]byte
	for {
		item, err := w.rdb.RPop(ctx, queue).Result()
		if err != nil {
			break
		}
		raw = append(raw, []byte(item))
	}
	if len(raw) == 0 {
		return
	}

	if err := w.persist(ctx, raw); err != nil {
		w.log.Error().Err(err).Int("batch", len(raw)).Msg("Drain persist error, requeueing")
		for _, item := range raw {
			w.rdb.LPush(ctx, queue, item)
		}
		return
	}
	w.log.Info().Int("count", len(raw)).Msg("Drained remaining check-ins")
}

func (w *CheckinWorker) persist(ctx context.Context, raw [][]byte) error {
	events := make([]model.CheckinEvent, 0, len(raw))
	for _, item := range raw {
		var ev model.CheckinEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			// A malformed event can never succeed; log and drop it
			// rather than wedging the queue.
			w.log.Error().Err(err).Str("payload", string(item)).Msg("Unmarshal error, dropping event")
			continue
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil
	}

	if err := w.logRepo.BatchInsert(ctx, events); err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "23503" {
			return err
		}
		// An unknown card poisons the whole batch; fall back to
		// row-at-a-time so one bad scan cannot wedge the queue.
		w.persistIndividually(ctx, events)
	}

	w.log.Debug().Int("count", len(events)).Msg("check-ins persisted")

	// One notification per batch is enough for the dashboards.
	date := facility.LocalDate(events[len(events)-1].LoggedAt)
	if err := w.rdb.Publish(ctx, config.CacheKey.LiveRosterChannel(), date).Err(); err != nil {
		w.log.Warn().Err(err).Msg("failed to publish roster change")
	}
	return nil
}

func (w *CheckinWorker) persistIndividually(ctx context.Context, events []model.CheckinEvent) {
	for _, ev := range events {
		l := &model.EntryLog{UserID: ev.UserID, LogType: model.LogTypeEntry, LoggedAt: ev.LoggedAt}
		if err := w.logRepo.Create(ctx, l); err != nil {
			w.log.Warn().Err(err).Str("user_id", ev.UserID).Msg("dropping unpersistable check-in")
		}
	}
}
