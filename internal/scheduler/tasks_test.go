package scheduler

import (
	"testing"

	"github.com/hibiken/asynq"
)

func TestDistributionSweepTaskRoundTrip(t *testing.T) {
	task, err := NewDistributionSweepTask(DistributionSweepPayload{Limit: 25})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskDistributionSweep {
		t.Fatalf("expected task type %q, got %q", TaskDistributionSweep, task.Type())
	}

	payload, err := ParseDistributionSweepPayload(task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.Limit != 25 {
		t.Fatalf("expected limit 25, got %d", payload.Limit)
	}
}

func TestParseDistributionSweepPayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskDistributionSweep, []byte("{not json"))
	if _, err := ParseDistributionSweepPayload(task); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}
