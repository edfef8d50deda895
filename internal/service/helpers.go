package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func logError(msg string, err error) {
	slog.Error(fmt.Sprintf("%s: %v", msg, err))
}

// parseDay accepts a calendar date or an RFC 3339 timestamp and returns the
// start of that day in UTC.
func parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// endOfDay returns the last millisecond of the day that starts at day.
func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}

func decodeDocument[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
