package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client enqueues import tasks.
type Client struct {
	client    *asynq.Client
	retention time.Duration
}

// NewClient constructs a Client. Completed task results are kept for
// retention so their status can still be read.
func NewClient(redisOpts asynq.RedisClientOpt, retention time.Duration) *Client {
	return &Client{client: asynq.NewClient(redisOpts), retention: retention}
}

// EnqueueImport submits an import and returns its task ID.
//
// Tasks are never retried: the pipeline deletes its input files on the
// first attempt.
func (c *Client) EnqueueImport(ctx context.Context, payload ImportPayload) (string, error) {
	task, err := NewImportTask(payload,
		asynq.TaskID(uuid.NewString()),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Retention(c.retention),
	)
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
