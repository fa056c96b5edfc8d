package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatementWarmup is the task type for pre-building statement packs.
	TaskStatementWarmup = "statement:warmup"
)

// StatementWarmupPayload scopes a warmup run. An empty WorkpaperIDs slice
// warms every workpaper that is not yet FINAL.
type StatementWarmupPayload struct {
	WorkpaperIDs     []uuid.UUID `json:"workpaper_ids,omitempty"`
	IncludeZeroItems bool        `json:"include_zero_items,omitempty"`
}

// NewStatementWarmupTask constructs an Asynq task.
func NewStatementWarmupTask(payload StatementWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementWarmup, data), nil
}
