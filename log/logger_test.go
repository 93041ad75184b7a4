package log

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "hl7log")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "test.log")
	logger := Logger(logrus.New(), path, "cli", "test")
	logger.Info("hello from the parser")

	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello from the parser")
	assert.Contains(t, string(b), "application=cli")
}

func TestLoggerBadFileFallsBackToStderr(t *testing.T) {
	logger := Logger(logrus.New(), "/no/such/dir/test.log", "cli", "test")
	assert.NotNil(t, logger)
}

func TestPackageLoggersInitialized(t *testing.T) {
	assert.NotNil(t, CLI)
	assert.NotNil(t, API)
}
