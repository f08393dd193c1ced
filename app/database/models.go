package database

import (
	"time"
)

const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Run is one rebuild attempt: fetch, filter, partition, publish. Run
// rows are observability only; no rebuild ever reads them to produce
// output.
type Run struct {
	ID             int64
	Status         string
	Error          string
	TotalEvents    int
	ExcludedEvents int
	PublishedFeeds int
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// CommitteeStat records how many events one committee matched in a run.
type CommitteeStat struct {
	RunID         int64
	Committee     string
	Slug          string
	MatchedEvents int
}

// RunResult carries the counters of a completed run.
type RunResult struct {
	TotalEvents    int
	ExcludedEvents int
	PublishedFeeds int
	CommitteeStats []CommitteeStat
}
