package interfaces

import "time"

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService runs named maintenance jobs on cron schedules
type SchedulerService interface {
	RegisterJob(name, schedule, description string, handler func() error) error
	TriggerJob(name string) error
	GetJobStatus(name string) (*JobStatus, error)
	Start() error
	Stop() error
	IsRunning() bool
}
