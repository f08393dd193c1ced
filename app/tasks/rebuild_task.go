package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/feedwerk/ics-split/app/config"
	"github.com/feedwerk/ics-split/app/database"
	"github.com/feedwerk/ics-split/app/feed"
	"github.com/feedwerk/ics-split/app/fetch"
	"github.com/feedwerk/ics-split/app/publisher"
)

type RebuildTask struct {
	Task
	catalog   *config.Catalog
	fetcher   *fetch.Fetcher
	pipeline  *feed.Pipeline
	publisher *publisher.Publisher
	runRepo   database.RunRepository
	sourceURL string
}

func NewRebuildTask(sourceURL string, catalog *config.Catalog, fetcher *fetch.Fetcher, pipeline *feed.Pipeline, pub *publisher.Publisher, runRepo database.RunRepository) *RebuildTask {
	return &RebuildTask{
		Task:      NewTask(TaskTypeRebuild, sourceURL),
		catalog:   catalog,
		fetcher:   fetcher,
		pipeline:  pipeline,
		publisher: pub,
		runRepo:   runRepo,
		sourceURL: sourceURL,
	}
}

func (t *RebuildTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.catalog.Reload()
	if err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}

	runID, err := t.runRepo.CreateRun(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	data, err := t.fetcher.Run(ctx, t.sourceURL)
	if err != nil {
		t.fail(runID, err)
		return fmt.Errorf("failed to fetch calendar: %w", err)
	}

	result, err := t.pipeline.Run(data, t.catalog.Committees(), t.catalog.Profile())
	if err != nil {
		t.fail(runID, err)
		return fmt.Errorf("failed to build feeds: %w", err)
	}

	err = t.publisher.Run(result.Feeds)
	if err != nil {
		t.fail(runID, err)
		return fmt.Errorf("failed to publish feeds: %w", err)
	}

	stats := make([]database.CommitteeStat, 0, len(result.Feeds))
	for _, f := range result.Feeds {
		stats = append(stats, database.CommitteeStat{
			RunID:         runID,
			Committee:     f.Committee,
			Slug:          f.Slug,
			MatchedEvents: f.Matched,
		})
	}

	err = t.runRepo.CompleteRun(runID, database.RunResult{
		TotalEvents:    result.TotalEvents,
		ExcludedEvents: result.ExcludedEvents,
		PublishedFeeds: len(result.Feeds),
		CommitteeStats: stats,
	})
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	slog.Info("Task completed",
		"type", "Rebuild",
		"source", t.sourceURL,
		"duration", t.GetDuration(),
		"total", result.TotalEvents,
		"excluded", result.ExcludedEvents,
		"feeds", len(result.Feeds))

	return nil
}

func (t *RebuildTask) fail(runID int64, taskErr error) {
	err := t.runRepo.FailRun(runID, taskErr.Error())
	if err != nil {
		slog.Error("Failed to record run failure", "run", runID, "error", err)
	}
}
