package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := initLogger(&buf, "bench", "info")
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Int("cycles", 3).Msg("done")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "done")
	// field names may be colorized
	assert.Contains(t, out, "app=")
	assert.Contains(t, out, "bench")
	assert.Contains(t, out, "cycles=")

	_, err = initLogger(&buf, "bench", "loud")
	assert.Error(t, err)
}
