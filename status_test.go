package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ansiEscape = "\x1b["

func TestStatusLoggerStreams(t *testing.T) {
	t.Parallel()
	log, out, errOut := testLogger()

	log.Infof("🔍 Scanning %s", "src")
	log.Successf("done")
	log.Plainf("plain")
	log.Warnf("skipped %d", 2)
	log.Errorf("boom")

	assert.Equal(t, "🔍 Scanning src\ndone\nplain\n", out.String())
	assert.Equal(t, "Warning: skipped 2\nError: boom\n", errOut.String())
}

func TestStatusLoggerPlainForNonTerminals(t *testing.T) {
	t.Parallel()
	errFile, err := os.Create(filepath.Join(t.TempDir(), "stderr.log"))
	require.NoError(t, err)
	defer errFile.Close()

	var out bytes.Buffer
	log := newStatusLogger(&out, errFile)
	log.Infof("info")
	log.Warnf("careful")
	require.NoError(t, errFile.Sync())

	data, err := os.ReadFile(errFile.Name())
	require.NoError(t, err)
	assert.Equal(t, "Warning: careful\n", string(data))
	assert.NotContains(t, out.String(), ansiEscape)
	assert.False(t, wantsColor(errFile))
}

func TestStatusLoggerColourIsPerStream(t *testing.T) {
	t.Parallel()
	log, out, errOut := testLogger()
	setColor(log.info, true)
	setColor(log.success, true)

	log.Infof("info")
	log.Warnf("careful")

	assert.Contains(t, out.String(), ansiEscape)
	assert.Equal(t, "Warning: careful\n", errOut.String())

	log.disableColor()
	out.Reset()
	log.Successf("ok")
	assert.Equal(t, "ok\n", out.String())
}

func TestWantsColorHonoursNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, wantsColor(os.Stdout))
}
