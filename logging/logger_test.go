package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters("posterly", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String(), "debug should be suppressed when disabled")

	l.SetDebug(true)
	l.Debugf("shown %d", 2)
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("boom: %s", "x")

	assert.Contains(t, out.String(), "[posterly] DEBUG: shown 2")
	assert.Contains(t, out.String(), "[posterly] INFO: info")
	assert.Contains(t, errOut.String(), "[posterly] WARN: warn")
	assert.Contains(t, errOut.String(), "[posterly] ERROR: boom: x")
	assert.False(t, strings.Contains(out.String(), "WARN"))
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.Infof("nothing happens")
}
