package service

import "context"

// MediaCleaner removes files that no document references any more. Removal
// happens outside the request that orphaned the files and may be retried; a
// failure to schedule never fails the caller.
type MediaCleaner interface {
	Schedule(ctx context.Context, urls ...string) error
}

func scheduleCleanup(ctx context.Context, cleaner MediaCleaner, urls ...string) {
	var pending []string
	for _, u := range urls {
		if u != "" {
			pending = append(pending, u)
		}
	}
	if cleaner == nil || len(pending) == 0 {
		return
	}
	if err := cleaner.Schedule(ctx, pending...); err != nil {
		logError("schedule media cleanup", err)
	}
}
