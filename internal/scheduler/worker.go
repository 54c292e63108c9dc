package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	distrepo "leadmarket_backend/internal/distribution/repository"
	distservice "leadmarket_backend/internal/distribution/service"
	"leadmarket_backend/internal/events"
	"leadmarket_backend/platform/config"
	"leadmarket_backend/platform/logger"
)

// WorkerConfig combines the config interfaces the worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.DistributionConfig
}

// Worker consumes scheduler tasks and runs distribution sweeps.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	distribution *distservice.Service
	sweepLimit   int
	log          *logger.Logger
}

// NewWorker creates the asynq server and wires the sweep handler.
func NewWorker(cfg WorkerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		distribution: distservice.New(distrepo.New(pool), bus, log),
		sweepLimit:   cfg.GetSweepBatchSize(),
		log:          log,
	}

	mux.HandleFunc(TaskDistributionSweep, w.handleDistributionSweep)

	return w, nil
}

func (w *Worker) handleDistributionSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDistributionSweepPayload(task)
	if err != nil {
		return err
	}

	limit := payload.Limit
	if limit < 1 {
		limit = w.sweepLimit
	}

	result, err := w.distribution.BatchDistribute(ctx, nil, limit)
	if err != nil {
		return fmt.Errorf("distribution sweep: %w", err)
	}

	w.log.Info("distribution sweep finished",
		"total", result.Total,
		"successful", result.Successful,
		"failed", result.Failed,
	)
	return nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
