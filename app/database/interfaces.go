package database

import (
	"time"
)

type RunRepository interface {
	CreateRun(startedAt time.Time) (int64, error)
	CompleteRun(runID int64, result RunResult) error
	FailRun(runID int64, errorMsg string) error

	GetLastRun() (*Run, error)
	GetLastSuccessfulRun() (*Run, error)
	GetRecentRuns(limit int) ([]Run, error)
	GetCommitteeStats(runID int64) ([]CommitteeStat, error)
}
