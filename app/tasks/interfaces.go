package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
// This interface provides task queue management, worker pool control, and
// periodic rebuild scheduling.
// Example usage:
//
//	scheduler := NewScheduler(catalog, fetcher, pipeline, publisher, runRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRebuildTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
