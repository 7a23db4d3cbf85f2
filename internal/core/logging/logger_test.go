package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_SingletonPerComponent(t *testing.T) {
	a := NewLogger("sessions")
	b := NewLogger("sessions")
	c := NewLogger("correlate")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "sessions", a.Data["component"])
}

func TestSetLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("debug")
	defer SetLevel("warn")

	NewLogger("test").Debug("skipped malformed line")
	assert.Contains(t, buf.String(), "skipped malformed line")
	assert.Equal(t, logrus.DebugLevel, NewLogger("test").Logger.GetLevel())

	SetLevel("not-a-level")
	assert.Equal(t, logrus.DebugLevel, NewLogger("test").Logger.GetLevel())
}
