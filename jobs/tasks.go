package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInventoryIntegrity scans products and order lines for rule violations.
	TaskInventoryIntegrity = "inventory:integrity"
)

// IntegrityPayload carries scheduling metadata.
type IntegrityPayload struct {
	RequestedAt time.Time `json:"requested_at"`
	Source      string    `json:"source"`
}

// NewIntegrityTask constructs an Asynq task for the integrity scan.
func NewIntegrityTask(payload IntegrityPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryIntegrity, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
