package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// NewPosthogClient builds a PostHog client, or returns nil when no API key is
// configured so callers can treat analytics as optional.
func NewPosthogClient(apiKey, endpoint string) posthog.Client {
	if apiKey == "" {
		slog.Info("PostHog API key not set, analytics disabled")
		return nil
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		slog.Error("Failed to initialize PostHog client", slog.String("error", err.Error()))
		return nil
	}
	return client
}
