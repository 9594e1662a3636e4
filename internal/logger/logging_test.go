package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "test", log.InfoLevel)
	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "test")
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, log.Default(), FromContext(context.Background()))

	l := NewWithWriter(&bytes.Buffer{}, "", log.DebugLevel)
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	StartProgress(NewWithWriter(&buf, "", log.DebugLevel)).Done("Transformed 3 words")
	assert.Contains(t, buf.String(), "Transformed 3 words (")
}

func TestNewWithConfig(t *testing.T) {
	l := NewWithConfig("ipc", log.WarnLevel, false, false, log.JSONFormatter)
	assert.Equal(t, log.WarnLevel, l.GetLevel())
	assert.Equal(t, "ipc", l.GetPrefix())
}
