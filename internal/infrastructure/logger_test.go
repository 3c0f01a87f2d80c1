package infrastructure

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/architeacher/svc-trip-planner/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		cfg         config.LoggingConfig
		logDebug    bool
		expectEntry bool
	}{
		{
			name:        "debug level keeps debug entries",
			cfg:         config.LoggingConfig{Level: "debug", Format: "json"},
			logDebug:    true,
			expectEntry: true,
		},
		{
			name:        "info level drops debug entries",
			cfg:         config.LoggingConfig{Level: "info", Format: "json"},
			logDebug:    true,
			expectEntry: false,
		},
		{
			name:        "unknown level falls back to info",
			cfg:         config.LoggingConfig{Level: "chatty", Format: "json"},
			expectEntry: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := newLogger(&buf, tc.cfg)

			if tc.logDebug {
				logger.Debug().Str("job_id", "42").Msg("debug entry")
			} else {
				logger.Info().Str("job_id", "42").Msg("info entry")
			}

			if !tc.expectEntry {
				assert.Zero(t, buf.Len())

				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "42", entry["job_id"])
			assert.Contains(t, entry, "time")
		})
	}
}

func TestLogger_QueueLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})
	logger.QueueLogger().Warn().Str("queue", "PlanTrip").Msg("consumer canceled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "queue", entry["component"])
	assert.Equal(t, "PlanTrip", entry["queue"])
}
