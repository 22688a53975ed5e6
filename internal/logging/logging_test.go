package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	prevCtx := zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.DefaultContextLogger = prevCtx
	})
}

func TestSetupWriter_JSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupWriter(&buf, "debug", false)

	log.Debug().Str("k", "v").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "time")
}

func TestSetupWriter_Level(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupWriter(&buf, "WARN", false)

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())
	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetupWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupWriter(&buf, "chatty", false)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}

func TestSetupWriter_ContextFallback(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupWriter(&buf, "info", false)

	log.Ctx(context.Background()).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestSetupWriter_Pretty(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	SetupWriter(&buf, "info", true)

	log.Info().Msg("readable")
	out := buf.String()
	assert.Contains(t, out, "readable")
	assert.False(t, strings.HasPrefix(out, "{"))
}
