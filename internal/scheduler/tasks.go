// Package scheduler defines asynq tasks and the worker that runs them.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDistributionSweep = "distribution.sweep"

// DistributionSweepPayload asks the worker to distribute up to Limit
// unassigned leads.
type DistributionSweepPayload struct {
	Limit int `json:"limit"`
}

func NewDistributionSweepTask(payload DistributionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDistributionSweep, data), nil
}

func ParseDistributionSweepPayload(task *asynq.Task) (DistributionSweepPayload, error) {
	var payload DistributionSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DistributionSweepPayload{}, err
	}
	return payload, nil
}
