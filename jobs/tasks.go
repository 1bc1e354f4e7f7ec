package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAdminWarmup pre-populates the admin-wide invoice cache.
	TaskAdminWarmup = "invoices:admin_warmup"
	// TaskUserRefresh rebuilds one user's invoice cache.
	TaskUserRefresh = "invoices:user_refresh"
)

// AdminWarmupPayload describes an admin cache warmup run.
type AdminWarmupPayload struct {
	Reason string `json:"reason"`
}

// UserRefreshPayload identifies the user cache to rebuild.
type UserRefreshPayload struct {
	Username string `json:"username"`
}

// NewAdminWarmupTask constructs an Asynq task for the admin warmup.
func NewAdminWarmupTask(payload AdminWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAdminWarmup, data), nil
}

// NewUserRefreshTask constructs an Asynq task for a per-user refresh.
func NewUserRefreshTask(payload UserRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUserRefresh, data), nil
}
