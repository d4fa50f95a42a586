package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProdLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "prod", "info")
	log.Info("draft saved", "user_id", "u-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "draft saved", line["msg"])
	assert.Equal(t, "u-1", line["user_id"])
	assert.Equal(t, "ebhutanza", line["service"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "dev", "warn")
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
