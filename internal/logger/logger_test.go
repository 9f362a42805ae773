package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := Setup("warn", true, &buf)

	l.Info("hidden")
	l.Warn("shown", "group", "1:1-7")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"group":"1:1-7"`)
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := Setup("verbose", false, &buf)

	l.Debug("debug line")
	l.Info("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}
