package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "weekplan-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpointInstallsProviders(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{
		ServiceName:    "weekplan-test",
		ServiceVersion: "0.0.1",
		Endpoint:       "http://127.0.0.1:1",
		ExportInterval: time.Hour,
	})
	require.NoError(t, err)

	// nothing was recorded, so shutdown has nothing to export
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
