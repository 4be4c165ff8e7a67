package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrScrapePending = errors.New("live scrape already queued")

// Scheduler runs queued tasks on a single worker, so two runs never hit the
// retailer at the same time, and queues a live scrape whenever the profile's
// refresh interval has passed since the last one.
type Scheduler struct {
	profile       *catalog.Profile
	runner        CatalogRunner
	productRepo   database.ProductRepository
	catalogRepo   database.CatalogRepository
	runRepo       database.RunRepository
	interval      time.Duration
	taskTimeout   time.Duration
	autoMerge     bool
	scrapePending atomic.Bool
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(profile *catalog.Profile, runner CatalogRunner, productRepo database.ProductRepository,
	catalogRepo database.CatalogRepository, runRepo database.RunRepository,
	interval, taskTimeout time.Duration, autoMerge bool) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		profile:     profile,
		runner:      runner,
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		runRepo:     runRepo,
		interval:    interval,
		taskTimeout: taskTimeout,
		autoMerge:   autoMerge,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// ScheduleScrape queues a run. Only one live scrape may be queued or running
// at a time.
func (s *Scheduler) ScheduleScrape(mode database.RunMode) error {
	if mode == database.RunModeLive && !s.scrapePending.CompareAndSwap(false, true) {
		return ErrScrapePending
	}

	task := NewScrapeCatalogTask(s.profile.Name, mode, s.runner, s.runRepo)
	if err := s.EnqueueTask(task); err != nil {
		if mode == database.RunModeLive {
			s.scrapePending.Store(false)
		}
		return err
	}

	return nil
}

func (s *Scheduler) ScheduleMerge() error {
	return s.EnqueueTask(NewMergeCatalogTask(s.profile.Name, s.productRepo, s.catalogRepo))
}

func (s *Scheduler) enqueueDueTasks() {
	if !s.profile.Settings.Enabled {
		slog.Debug("Profile disabled, skipping scheduled scrape", "source", s.profile.Name)
		return
	}

	if s.scrapePending.Load() {
		slog.Debug("Live scrape already pending", "source", s.profile.Name)
		return
	}

	run, err := s.runRepo.GetLatestRun(s.profile.Name, database.RunModeLive)
	if err != nil {
		slog.Warn("Failed to get latest run, skipping", "source", s.profile.Name, "error", err)
		return
	}

	// A run without a finish time was interrupted by a restart.
	if run != nil && run.FinishedAt != nil {
		nextRunAt := run.FinishedAt.Add(time.Duration(s.profile.Settings.RefreshInterval) * time.Second)
		if nextRunAt.After(time.Now().UTC()) {
			slog.Debug("Catalog not due for refresh yet", "source", s.profile.Name, "next_run_at", nextRunAt)
			return
		}
	}

	if err := s.ScheduleScrape(database.RunModeLive); err != nil {
		slog.Warn("Failed to enqueue ScrapeCatalogTask", "source", s.profile.Name, "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		s.taskSucceeded(task)
		return
	}

	slog.Error("Worker task execution failed", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() || s.ctx.Err() != nil {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.taskFinished(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSource(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.taskFinished(task)
		case <-time.After(retryDelay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				s.taskFinished(task)
			}
		}
	}()
}

func (s *Scheduler) taskSucceeded(task TaskInterface) {
	s.taskFinished(task)

	scrapeTask, ok := task.(*ScrapeCatalogTask)
	if !ok || scrapeTask.Mode != database.RunModeLive || !s.autoMerge {
		return
	}

	if err := s.ScheduleMerge(); err != nil {
		slog.Warn("Failed to enqueue MergeCatalogTask", "source", task.GetSource(), "error", err)
	}
}

func (s *Scheduler) taskFinished(task TaskInterface) {
	if scrapeTask, ok := task.(*ScrapeCatalogTask); ok && scrapeTask.Mode == database.RunModeLive {
		s.scrapePending.Store(false)
	}
}
