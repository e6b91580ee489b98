package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/types"
)

func TestInitProducesJSONWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: types.LogLevelDebug, JSONOutput: true, Output: &buf})

	logger := WithCorrelationID(WithAgent("analysis"), "corr-123")
	logger.Info().Msg("analysis started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "corr-123", record["correlation_id"])
	assert.Equal(t, "analysis", record["logger"])
	assert.Equal(t, "analysis started", record["message"])
}

func TestWithCorrelationIDNoopOnEmpty(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: types.LogLevelInfo, JSONOutput: true, Output: &buf})

	logger := WithCorrelationID(Logger, "")
	logger.Info().Msg("no correlation")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, present := record["correlation_id"]
	assert.False(t, present)
}
