package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := New(path, "info")
	require.NoError(t, err)

	log.Info("SetMode: provider=%s, slot=%s", "p-1", "Mon-09:00")
	log.Debug("hidden at info level")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SetMode: provider=p-1, slot=Mon-09:00")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New("", "verbose")
	require.NoError(t, err)
	assert.NoError(t, log.Close())
}
