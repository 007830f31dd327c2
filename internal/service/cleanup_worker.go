package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultCleanupSchedule runs the cleanup at the top of every hour
const DefaultCleanupSchedule = "@hourly"

// ResetPurger removes password reset tokens that have expired
type ResetPurger interface {
	PurgeExpiredResets() (int64, error)
}

// CleanupWorker periodically removes expired password reset tokens
type CleanupWorker struct {
	purger   ResetPurger
	logger   zerolog.Logger
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewCleanupWorker creates a cleanup worker. schedule uses cron syntax or descriptors like "@hourly".
func NewCleanupWorker(purger ResetPurger, logger zerolog.Logger, schedule string) (*CleanupWorker, error) {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	return &CleanupWorker{
		purger:   purger,
		logger:   logger.With().Str("component", "cleanup_worker").Logger(),
		schedule: schedule,
	}, nil
}

// Start runs one cleanup immediately and then schedules the rest
func (w *CleanupWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.RunOnce); err != nil {
		return err
	}

	w.logger.Info().Str("schedule", w.schedule).Msg("Starting cleanup worker")
	go w.RunOnce()

	c.Start()
	w.cron = c
	w.running = true
	return nil
}

// Stop waits for a running cleanup to finish and stops scheduling
func (w *CleanupWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.cron = nil
	w.mu.Unlock()

	<-c.Stop().Done()
	w.logger.Info().Msg("Cleanup worker stopped")
}

// RunOnce purges expired tokens and logs the outcome
func (w *CleanupWorker) RunOnce() {
	start := time.Now()
	purged, err := w.purger.PurgeExpiredResets()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to purge expired password resets")
		return
	}
	w.logger.Info().
		Int64("purged", purged).
		Dur("elapsed", time.Since(start)).
		Msg("Purged expired password resets")
}

// IsRunning returns whether the worker is currently scheduled
func (w *CleanupWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
