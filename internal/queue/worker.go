package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandleMediaCleanupTask(ctx context.Context, task *asynq.Task) error {
	var payload MediaCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode cleanup payload: %v: %w", err, asynq.SkipRetry)
	}

	return j.Cleanup(ctx, payload.URLs)
}

// Cleanup deletes every url from the media store. Deletion is idempotent, so
// a retried task simply skips the files that are already gone.
func (j *Queue) Cleanup(ctx context.Context, urls []string) error {
	var errs []error
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := j.store.Delete(ctx, url); err != nil {
			log.Printf("Error removing %s: %v", url, err)
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
			continue
		}
		log.Printf("Removed %s", url)
	}
	return errors.Join(errs...)
}
