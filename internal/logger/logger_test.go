package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	Init(true, "")
	assert.NotSame(t, previous, slog.Default())
	assert.True(t, slog.Default().Handler().Enabled(t.Context(), slog.LevelDebug))

	Init(false, "")
	assert.False(t, slog.Default().Handler().Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, slog.Default().Handler().Enabled(t.Context(), slog.LevelInfo))
}
