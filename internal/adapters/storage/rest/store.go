package rest

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/platform/httpclient"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time interface check.
var _ ports.Store = (*Store)(nil)

// Store is the outbound adapter for the row-store REST API. It implements
// [ports.Store] with one table resource per entity and the
// create_survey_with_questions RPC for the atomic survey write.
//
// The underlying [httpclient.Client] provides circuit breaking, retry with
// exponential backoff, rate limiting, OpenTelemetry tracing, and health
// checking ([ports.HealthChecker]) for every call.
type Store struct {
	req    *Requester
	logger *slog.Logger
}

// New creates a Store that sends requests through the given
// [httpclient.Client]. The client's BaseURL should point to the row-store
// API root. The serviceKey authenticates the service-role caller.
func New(client *httpclient.Client, serviceKey string, logger *slog.Logger) *Store {
	return &Store{
		req:    NewRequester(client, serviceKey, logger),
		logger: logger,
	}
}

// eq builds a row-store equality filter for a query parameter value.
func eq(value string) string {
	return "eq." + url.QueryEscape(value)
}

// parseTime parses an RFC3339 timestamp from the row-store, tolerating
// fractional seconds without a zone suffix. Zero time on failure.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// Timestamps written without a zone come back like "2026-03-10T12:00:00".
	t, _ := time.Parse("2006-01-02T15:04:05", s)
	return t
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	return &t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
