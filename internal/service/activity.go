// Package service provides business logic for the application.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/genstudio/genstudio/internal/metrics"
	"github.com/genstudio/genstudio/internal/model"
)

// RecordTimeout bounds each background activity write.
const RecordTimeout = 5 * time.Second

// ActivityStore persists activity records.
type ActivityStore interface {
	RecordActivity(ctx context.Context, record *model.ActivityRecord) error
	ListActivity(ctx context.Context, accountID string) ([]*model.ActivityRecord, error)
	DeleteActivity(ctx context.Context, accountID, activityID string) error
}

// ActivityService records and manages generation history.
type ActivityService struct {
	store   ActivityStore
	logger  *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time

	wg sync.WaitGroup
}

// NewActivityService creates a new ActivityService.
func NewActivityService(store ActivityStore, logger *slog.Logger, recorder metrics.Recorder) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ActivityService{
		store:   store,
		logger:  logger.With("component", "activity"),
		metrics: recorder,
		now:     time.Now,
	}
}

// RecordAsync stores one activity record without blocking the caller.
// Failures are logged and counted, never returned.
func (s *ActivityService) RecordAsync(accountID string, capability model.Capability, input, output any) {
	record, err := s.newRecord(accountID, capability, input, output)
	if err != nil {
		s.logger.Warn("failed to encode activity",
			"user_id", accountID,
			"capability", string(capability),
			"error", err,
		)
		s.metrics.IncActivityRecorded("failed")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), RecordTimeout)
		defer cancel()

		if err := s.store.RecordActivity(ctx, record); err != nil {
			s.logger.Warn("failed to record activity",
				"activity_id", record.ID,
				"user_id", record.UserID,
				"capability", string(record.Capability),
				"error", err,
			)
			s.metrics.IncActivityRecorded("failed")
			return
		}

		s.logger.Debug("activity recorded",
			"activity_id", record.ID,
			"user_id", record.UserID,
			"capability", string(record.Capability),
		)
		s.metrics.IncActivityRecorded("success")
	}()
}

func (s *ActivityService) newRecord(accountID string, capability model.Capability, input, output any) (*model.ActivityRecord, error) {
	tag := capability.ActivityTag()
	if !tag.IsValid() {
		return nil, fmt.Errorf("unknown capability %q", capability)
	}

	in, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	out, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}

	return &model.ActivityRecord{
		ID:         ulid.Make().String(),
		UserID:     accountID,
		Capability: tag,
		InputData:  string(in),
		OutputData: string(out),
		CreatedAt:  s.now().UTC(),
	}, nil
}

// Wait blocks until every pending write finishes or ctx is done.
func (s *ActivityService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("pending activity writes abandoned"), ctx.Err())
	}
}

// List returns the account's activity, most recent first.
func (s *ActivityService) List(ctx context.Context, accountID string) ([]*model.ActivityRecord, error) {
	return s.store.ListActivity(ctx, accountID)
}

// Delete removes one activity record owned by accountID.
func (s *ActivityService) Delete(ctx context.Context, accountID, activityID string) error {
	if err := s.store.DeleteActivity(ctx, accountID, activityID); err != nil {
		return err
	}

	s.logger.Info("activity deleted",
		"activity_id", activityID,
		"user_id", accountID,
	)
	return nil
}
