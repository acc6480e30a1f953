package queue

import (
	"github.com/hibiken/asynq"

	"meetsync/core/config"
	"meetsync/core/logger"
)

// Queue wraps the asynq client used by services to enqueue background tasks
type Queue struct {
	client *asynq.Client
}

func NewQueue(cfg config.RedisConfig) *Queue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Queue{client: client}
}

// Enqueue submits a task for background processing
func (q *Queue) Enqueue(taskType string, payload []byte, opts ...asynq.Option) error {
	task := asynq.NewTask(taskType, payload)
	info, err := q.client.Enqueue(task, opts...)
	if err != nil {
		logger.Error("Queue:Enqueue:Error", "type", taskType, "error", err)
		return err
	}
	logger.Debug("Queue:Enqueue:Success", "type", taskType, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// NewWorker builds the asynq server that consumes background tasks. Handlers
// are registered by the modules through the returned mux.
func NewWorker(cfg config.RedisConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)
	return srv, asynq.NewServeMux()
}
