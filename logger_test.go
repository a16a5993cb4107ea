package sufast

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerToStderr(t *testing.T) {
	log := newLogger("sufast-test", "", false)
	assert.NotNil(t, log.GetSink())
}

func TestNewLoggerToFile(t *testing.T) {
	dir := t.TempDir()
	log := newLogger("sufast-test", filepath.Join(dir, "sufast.log"), true)
	assert.NotNil(t, log.GetSink())

	log.Info("hello")
}
