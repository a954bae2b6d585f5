package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialproof/socialproof/internal/testutil"
)

func TestSetupDisabledWithoutAgentHost(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{}, testutil.DiscardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}

func TestSetupCustomAgentHost(t *testing.T) {
	cfg := Config{
		AgentHost:   "localhost:4318",
		Environment: "staging",
		ServiceName: "socialproof-test",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg, testutil.DiscardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}

func TestSetupAgentUnavailableGracefulDegradation(t *testing.T) {
	// Unreachable agent: exporter creation succeeds, spans silently fail
	// to export. Setup must not fail either way.
	cfg := Config{
		AgentHost:   "localhost:1",
		Environment: "test",
		ServiceName: "graceful-test",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg, testutil.DiscardLogger())

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}
