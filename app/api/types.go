package api

import (
	"github.com/feedwerk/ics-split/app/config"
	"github.com/feedwerk/ics-split/app/database"
	"github.com/feedwerk/ics-split/app/feed"
	"github.com/feedwerk/ics-split/app/fetch"
	"github.com/feedwerk/ics-split/app/publisher"
	"github.com/feedwerk/ics-split/app/tasks"
)

type Handler struct {
	catalog   *config.Catalog
	runRepo   database.RunRepository
	scheduler tasks.TaskSchedulerInterface
	fetcher   *fetch.Fetcher
	pipeline  *feed.Pipeline
	publisher *publisher.Publisher
	outputDir string
	sourceURL string
}
