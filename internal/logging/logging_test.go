package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"console debug", Config{Level: "debug", Format: FormatConsole}, false},
		{"bad level", Config{Level: "loud", Format: FormatJSON}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
		{"empty format", Config{Level: "info"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Format: FormatJSON}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("extracted", zap.String("location", "Троицкий"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "extracted", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Троицкий", entry["location"])
	assert.Contains(t, entry, "ts")
}

func TestNewConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Format: FormatConsole}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("fallback parser matched")
	out := buf.String()
	assert.Contains(t, out, "debug")
	assert.Contains(t, out, "fallback parser matched")
	assert.NotContains(t, out, `"msg"`)
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "nope", Format: FormatJSON}, nil)
	assert.Error(t, err)
}

func TestIsStdoutSyncError(t *testing.T) {
	t.Parallel()

	assert.True(t, isStdoutSyncError(syscall.EINVAL))
	assert.True(t, isStdoutSyncError(fmt.Errorf("sync /dev/stderr: %w", syscall.ENOTTY)))
	assert.False(t, isStdoutSyncError(syscall.EIO))
	assert.False(t, isStdoutSyncError(errors.New("disk full")))
}
