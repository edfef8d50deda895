package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/hibiken/asynq"
)

func EnqueueCleanup(ctx context.Context, asynqClient *asynq.Client, payload MediaCleanupPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeMediaCleanup, taskPayload, asynq.MaxRetry(MaxCleanupRetry))

	_, err = asynqClient.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	log.Printf("Cleanup task queued for %d file(s)", len(payload.URLs))
	return nil
}

// AsynqCleaner hands removals to the asynq worker so they survive restarts
// and are retried on failure.
type AsynqCleaner struct {
	client *asynq.Client
}

func NewAsynqCleaner(client *asynq.Client) *AsynqCleaner {
	return &AsynqCleaner{client: client}
}

func (c *AsynqCleaner) Schedule(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	return EnqueueCleanup(ctx, c.client, MediaCleanupPayload{URLs: urls})
}

// InlineCleaner removes files in a background goroutine of the current
// process. Used when no Redis is configured; a crash loses pending removals.
type InlineCleaner struct {
	q  *Queue
	wg sync.WaitGroup
}

func NewInlineCleaner(q *Queue) *InlineCleaner {
	return &InlineCleaner{q: q}
}

func (c *InlineCleaner) Schedule(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	pending := append([]string(nil), urls...)
	ctx = context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.q.Cleanup(ctx, pending); err != nil {
			log.Printf("Inline cleanup failed: %v", err)
		}
	}()
	return nil
}

// Wait blocks until every scheduled removal has finished.
func (c *InlineCleaner) Wait() {
	c.wg.Wait()
}
