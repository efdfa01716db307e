package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/facility"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

// EntryLogService handles check-in records. Writes publish a change
// notification so live dashboards refresh without polling.
type EntryLogService struct {
	logRepo *repository.EntryLogRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewEntryLogService creates a new EntryLogService.
func NewEntryLogService(logRepo *repository.EntryLogRepository, rdb *redis.Client, log zerolog.Logger) *EntryLogService {
	return &EntryLogService{
		logRepo: logRepo,
		rdb:     rdb,
		log:     log.With().Str("component", "entry_log_service").Logger(),
	}
}

// List retrieves entry logs matching the filter.
func (s *EntryLogService) List(ctx context.Context, f model.EntryLogFilter) ([]model.EntryLogDetail, error) {
	if f.Date != "" {
		if _, err := facility.ParseDate(f.Date); err != nil {
			return nil, err
		}
	}
	return s.logRepo.List(ctx, f)
}

// Create records a check-in. LoggedAt defaults to now; log_type defaults
// to "entry".
func (s *EntryLogService) Create(ctx context.Context, req *model.CreateEntryLogRequest) (*model.EntryLog, error) {
	loggedAt := time.Now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}
	logType := req.LogType
	if logType == "" {
		logType = model.LogTypeEntry
	}

	l := &model.EntryLog{UserID: req.UserID, LogType: logType, LoggedAt: loggedAt}
	if err := s.logRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.publishChange(ctx, facility.LocalDate(loggedAt))
	return l, nil
}

// DeleteToday removes a student's entry logs on the current
// facility-local date, reverting them to unaccounted on the dashboard.
func (s *EntryLogService) DeleteToday(ctx context.Context, now time.Time, userID string) (int64, error) {
	date := facility.LocalDate(now)
	n, err := s.logRepo.DeleteByUserAndLocalDate(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publishChange(ctx, date)
	}
	return n, nil
}

// EnqueueCheckin pushes a kiosk check-in onto the Redis queue. The
// kiosk gets its ack as soon as the event is durable in the queue; the
// check-in worker batches the database writes.
func (s *EntryLogService) EnqueueCheckin(ctx context.Context, userID string, now time.Time) error {
	payload, err := json.Marshal(model.CheckinEvent{UserID: userID, LoggedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("marshal checkin event: %w", err)
	}
	if err := s.rdb.LPush(ctx, config.CacheKey.CheckinQueueKey(), payload).Err(); err != nil {
		return fmt.Errorf("enqueue checkin: %w", err)
	}
	return nil
}

// publishChange notifies live dashboard subscribers that the roster for
// a date changed. Best effort: a failed publish only delays the
// dashboard until its next poll, so it is logged and swallowed.
func (s *EntryLogService) publishChange(ctx context.Context, date string) {
	if err := s.rdb.Publish(ctx, config.CacheKey.LiveRosterChannel(), date).Err(); err != nil {
		s.log.Warn().Err(err).Str("date", date).Msg("failed to publish roster change")
	}
}
