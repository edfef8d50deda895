package queue

import (
	"github.com/maheshrc27/foodblog-api/internal/media"
)

type Queue struct {
	store media.Store
}

func NewQueue(store media.Store) *Queue {
	return &Queue{
		store: store,
	}
}

const TaskTypeMediaCleanup = "media:cleanup"

// MaxCleanupRetry bounds how often a failed cleanup task is retried.
const MaxCleanupRetry = 5

type MediaCleanupPayload struct {
	URLs []string `json:"urls"`
}
