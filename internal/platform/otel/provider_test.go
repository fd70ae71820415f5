package otel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lifepath/internal/platform/config"
	"lifepath/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otel.Setup(context.Background(), config.Tracing{ServiceName: "lifepath"}, "test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx), "noop shutdown ignores cancelled context")
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export actually happens.
	cfg := config.Tracing{Endpoint: "http://192.0.2.1:4318", ServiceName: "lifepath"}

	shutdown, err := otel.Setup(context.Background(), cfg, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
