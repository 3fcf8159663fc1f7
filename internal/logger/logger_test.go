package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"", zapcore.InfoLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"DEBUG", zapcore.DebugLevel, true},
		{" warn ", zapcore.WarnLevel, true},
		{"warning", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"trace", zapcore.InfoLevel, false},
	}

	for _, tc := range cases {
		lv, err := parseLevel(tc.in)
		if tc.ok {
			require.NoError(t, err, "输入 %q", tc.in)
			require.Equal(t, tc.want, lv, "输入 %q", tc.in)
		} else {
			require.Error(t, err, "输入 %q", tc.in)
		}
	}
}

func TestNew(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	require.NotNil(t, log)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = New("bogus")
	require.Error(t, err)
}
