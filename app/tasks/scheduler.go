package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feedwerk/ics-split/app/cfg"
	"github.com/feedwerk/ics-split/app/config"
	"github.com/feedwerk/ics-split/app/database"
	"github.com/feedwerk/ics-split/app/feed"
	"github.com/feedwerk/ics-split/app/fetch"
	"github.com/feedwerk/ics-split/app/publisher"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	catalog         *config.Catalog
	fetcher         *fetch.Fetcher
	pipeline        *feed.Pipeline
	publisher       *publisher.Publisher
	runRepo         database.RunRepository
	sourceURL       string
	interval        time.Duration
	refreshInterval time.Duration
	workerCount     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface
}

func NewScheduler(catalog *config.Catalog, fetcher *fetch.Fetcher, pipeline *feed.Pipeline,
	pub *publisher.Publisher, runRepo database.RunRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		catalog:         catalog,
		fetcher:         fetcher,
		pipeline:        pipeline,
		publisher:       pub,
		runRepo:         runRepo,
		sourceURL:       cfg.SourceURL,
		interval:        time.Duration(cfg.SchedulerInterval) * time.Second,
		refreshInterval: time.Duration(cfg.RefreshInterval) * time.Second,
		workerCount:     cfg.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	slog.Debug("Scheduling initial rebuild", "source", s.sourceURL, "committees", s.catalog.CommitteeCount())

	task := NewRebuildTask(s.sourceURL, s.catalog, s.fetcher, s.pipeline, s.publisher, s.runRepo)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RebuildTask", "source", s.sourceURL, "error", err)
	}
}

func (s *Scheduler) enqueueTasks() {
	last, err := s.runRepo.GetLastSuccessfulRun()
	if err != nil {
		slog.Warn("Failed to get last successful run, skipping", "error", err)
		return
	}

	if last != nil && last.FinishedAt != nil {
		now := time.Now().UTC()
		nextRebuild := last.FinishedAt.Add(s.refreshInterval)
		if nextRebuild.After(now) {
			slog.Debug("Rebuild not due yet", "next_rebuild_at", nextRebuild)
			return
		}
	}

	task := NewRebuildTask(s.sourceURL, s.catalog, s.fetcher, s.pipeline, s.publisher, s.runRepo)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RebuildTask", "source", s.sourceURL, "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "name", task.GetName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
