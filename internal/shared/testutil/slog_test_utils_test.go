package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture(t *testing.T) {
	logger, logs := NewTestLogger(t)

	saver := logger.With(slog.String("component", "file_saver"))
	saver.Info("report saved", slog.String("filename", "LakbayCavite_Users_2024-06-15.pdf"))
	logger.Warn("export aborted", slog.Int("records", 0))

	require.Equal(t, 2, logs.Count())
	assert.True(t, logs.ContainsMessage("saved"))
	assert.False(t, logs.ContainsMessage("failed"))
	assert.True(t, logs.ContainsAttr("component", "file_saver"), "bound attributes are captured")
	assert.True(t, logs.ContainsAttr("records", int64(0)))
	assert.False(t, logs.ContainsAttr("records", 0), "slog stores ints as int64")

	records := logs.Records()
	assert.Equal(t, slog.LevelWarn, records[1].Level)
	assert.NotContains(t, records[1].Attrs, "component")
}

func TestLogCapture_ConcurrentLoggers(t *testing.T) {
	logger, logs := NewTestLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.With(slog.Int("worker", n)).Info("export finished")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, logs.Count())
}
