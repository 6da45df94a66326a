package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"", false, true, true},
		{"INFO", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := Setup(tt.level, "text", &buf)
			require.NoError(t, err)

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "msg=d"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "msg=i"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "msg=w"))
		})
	}
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	_, err := Setup("verbose", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Setup("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSetupJSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("info", "json", &buf)
	require.NoError(t, err)

	runID := NewRunID()
	WithRun(logger, runID).Info("seeded", "authors", 15)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "seeded", rec["msg"])
	assert.Equal(t, runID, rec["run_id"])
	assert.EqualValues(t, 15, rec["authors"])
}

func TestNewRunIDIsVersion7(t *testing.T) {
	id, err := uuid.Parse(NewRunID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, NewRunID(), NewRunID())
}
