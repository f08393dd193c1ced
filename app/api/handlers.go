package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/feedwerk/ics-split/app/cfg"
	"github.com/feedwerk/ics-split/app/config"
	"github.com/feedwerk/ics-split/app/database"
	"github.com/feedwerk/ics-split/app/feed"
	"github.com/feedwerk/ics-split/app/fetch"
	"github.com/feedwerk/ics-split/app/publisher"
	"github.com/feedwerk/ics-split/app/tasks"
	"github.com/gin-gonic/gin"
)

func NewHandler(catalog *config.Catalog, runRepo database.RunRepository,
	scheduler tasks.TaskSchedulerInterface, fetcher *fetch.Fetcher, pipeline *feed.Pipeline,
	pub *publisher.Publisher, outputDir string, sourceURL string) *Handler {
	return &Handler{
		catalog:   catalog,
		runRepo:   runRepo,
		scheduler: scheduler,
		fetcher:   fetcher,
		pipeline:  pipeline,
		publisher: pub,
		outputDir: outputDir,
		sourceURL: sourceURL,
	}
}

func (h *Handler) GetIndex(c *gin.Context) {
	path := filepath.Join(h.outputDir, "index.html")
	if _, err := os.Stat(path); err != nil {
		slog.Error("Index page not published yet", "path", path, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	c.File(path)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	file := c.Param("file")
	if file == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if filepath.Base(file) != file || !strings.HasSuffix(file, ".ics") {
		slog.Error("Rejected feed file request", "file", file)
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(h.outputDir, publisher.CalendarsDir, file)
	if _, err := os.Stat(path); err != nil {
		slog.Error("Feed file not published", "file", file, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.File(path)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	health["loaded_committees"] = h.catalog.CommitteeCount()

	if run, err := h.runRepo.GetLastRun(); err == nil && run != nil {
		health["last_run_status"] = run.Status
		health["last_run_started_at"] = run.StartedAt
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	run, err := h.runRepo.GetLastSuccessfulRun()
	if err != nil {
		slog.Error("Database error", "operation", "get_last_successful_run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No successful run yet"})
		return
	}

	stats, err := h.runRepo.GetCommitteeStats(run.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_committee_stats", "run", run.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	committees := make([]map[string]interface{}, 0, len(stats))
	for _, stat := range stats {
		committees = append(committees, map[string]interface{}{
			"committee":      stat.Committee,
			"slug":           stat.Slug,
			"matched_events": stat.MatchedEvents,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":          run.ID,
		"finished_at":     run.FinishedAt,
		"total_events":    run.TotalEvents,
		"excluded_events": run.ExcludedEvents,
		"published_feeds": run.PublishedFeeds,
		"committees":      committees,
	})
}

func (h *Handler) APIListCommittees(c *gin.Context) {
	names := h.catalog.Committees()
	profile := h.catalog.Profile()

	committees := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		slug := feed.Slugify(name)
		committees = append(committees, map[string]interface{}{
			"name": name,
			"slug": slug,
			"feed": h.feedURL(slug),
		})
	}

	response := map[string]interface{}{
		"committees": committees,
		"total":      len(committees),
		"source":     h.sourceURL,
	}

	if profile.Master.IsEnabled() {
		response["master"] = map[string]interface{}{
			"name": profile.Master.Name,
			"slug": feed.Slugify(profile.Master.Slug),
			"feed": h.feedURL(feed.Slugify(profile.Master.Slug)),
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) feedURL(slug string) string {
	if cfg.Get().BaseUrl != "" {
		return fmt.Sprintf("%s/%s/%s.ics", cfg.Get().BaseUrl, publisher.CalendarsDir, slug)
	}
	return fmt.Sprintf("http://localhost:%s/%s/%s.ics", cfg.Get().Port, publisher.CalendarsDir, slug)
}

func (h *Handler) APIListRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	list := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		info := map[string]interface{}{
			"id":              run.ID,
			"status":          run.Status,
			"total_events":    run.TotalEvents,
			"excluded_events": run.ExcludedEvents,
			"published_feeds": run.PublishedFeeds,
			"started_at":      run.StartedAt,
		}
		if run.FinishedAt != nil {
			info["finished_at"] = run.FinishedAt
		}
		if run.Error != "" {
			info["error"] = run.Error
		}
		list = append(list, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  list,
		"total": len(list),
	})
}

func (h *Handler) APIRebuild(c *gin.Context) {
	task := tasks.NewRebuildTask(h.sourceURL, h.catalog, h.fetcher, h.pipeline, h.publisher, h.runRepo)

	err := h.scheduler.EnqueueTask(task)
	if err != nil {
		slog.Error("Error enqueueing rebuild task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue rebuild task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rebuild task enqueued successfully",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}
