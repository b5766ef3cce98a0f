package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Str("user", "alice").Msg("registered")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "alice", entry["user"])
	assert.Equal(t, "registered", entry["message"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Ctx(context.Background()).Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")

	var scoped bytes.Buffer
	l := zerolog.New(&scoped).With().Str("request_id", "r-1").Logger()
	ctx := l.WithContext(context.Background())
	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, scoped.String(), "r-1")
}

func TestInit_DoesNotMutateHandedOutLogger(t *testing.T) {
	var first, second bytes.Buffer
	Init(Config{Output: &first})
	t.Cleanup(func() { Init(Config{}) })

	before := Ctx(context.Background())
	Init(Config{Output: &second})

	before.Info().Msg("old")
	Ctx(context.Background()).Info().Msg("new")

	assert.Contains(t, first.String(), "old")
	assert.NotContains(t, first.String(), "new")
	assert.Contains(t, second.String(), "new")
}
