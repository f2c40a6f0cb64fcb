package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutWritesToEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := &fanout{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	l := slog.New(h).With(slog.String("service", "foodgram"))
	l.Info("recipe created", "recipe_id", "r1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(a.Bytes(), &rec))
	assert.Equal(t, "recipe created", rec["msg"])
	assert.Equal(t, "foodgram", rec["service"])
	assert.Equal(t, "r1", rec["recipe_id"])
	assert.Empty(t, b.String())
}

func TestWithContextWithoutSpan(t *testing.T) {
	assert.Same(t, Logger(), WithContext(context.Background()))
}
