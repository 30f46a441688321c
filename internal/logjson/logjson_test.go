package logjson

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, fn func()) map[string]any {
	t.Helper()
	buf := new(bytes.Buffer)
	prev := log.Writer()
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	fn()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLog(t *testing.T) {
	t.Run("stamps ts and defaults level to info", func(t *testing.T) {
		entry := capture(t, func() {
			Log(time.UTC, map[string]any{"msg": "started"})
		})
		assert.Equal(t, "started", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.NotEmpty(t, entry["ts"])
	})

	t.Run("error status implies error level", func(t *testing.T) {
		entry := capture(t, func() {
			Log(time.UTC, map[string]any{"msg": "boom", "status": "error"})
		})
		assert.Equal(t, "error", entry["level"])
	})

	t.Run("explicit level wins", func(t *testing.T) {
		entry := capture(t, func() {
			Log(time.UTC, map[string]any{"msg": "warned", "level": "warn"})
		})
		assert.Equal(t, "warn", entry["level"])
	})
}
