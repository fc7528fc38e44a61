package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/infrastructure/observability"
)

func TestSetup_DisabledWritesJSONLogs(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	providers, logger, err := observability.Setup(ctx, observability.Config{LogOutput: &buf})
	require.NoError(t, err)

	logger.InfoContext(ctx, "reminder fired", "reminder_id", "r-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reminder fired", entry["msg"])
	assert.Equal(t, "r-1", entry["reminder_id"])

	assert.NoError(t, providers.Shutdown(ctx))
}
