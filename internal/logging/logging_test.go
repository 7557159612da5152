package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"warn", "json", zapcore.WarnLevel},
		{"loud", "json", zapcore.InfoLevel},
		{"", "", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)

			core := logger.Core()
			assert.True(t, core.Enabled(tt.want), "level %s should be enabled", tt.want)
			if tt.want > zapcore.DebugLevel {
				assert.False(t, core.Enabled(tt.want-1), "level %s should be disabled", tt.want-1)
			}
		})
	}
}
