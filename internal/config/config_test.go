package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, DefaultMovieBaseURL, cfg.MovieBaseURL)
	require.Equal(t, DefaultBookBaseURL, cfg.BookBaseURL)
	require.Equal(t, DefaultMusicBaseURL, cfg.MusicBaseURL)
	require.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	require.Equal(t, DefaultPageSize, cfg.PageSize)
	require.Equal(t, DefaultBaseDelay, cfg.BaseDelay)
	require.Equal(t, DefaultJitterRange, cfg.JitterRange)
	require.Equal(t, DefaultSlowBaseDelay, cfg.SlowBaseDelay)
	require.Equal(t, DefaultSlowJitterRange, cfg.SlowJitterRange)
	require.Equal(t, int64(DefaultSlowThreshold), cfg.SlowThreshold)
	require.Equal(t, DefaultRetryMax, cfg.RetryMax)
	require.Equal(t, DefaultRetryPauseMin, cfg.RetryPauseMin)
	require.Equal(t, DefaultRetryPauseMax, cfg.RetryPauseMax)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DBMC_PAGE_SIZE", "10")
	t.Setenv("DBMC_BASE_DELAY", "2s")
	t.Setenv("DBMC_MOVIE_BASE_URL", "http://127.0.0.1:9090")
	t.Setenv("DBMC_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, 2*time.Second, cfg.BaseDelay)
	require.Equal(t, "http://127.0.0.1:9090", cfg.MovieBaseURL)
	require.Equal(t, "debug", cfg.LogLevel)

	// 未覆盖的键保持默认。
	require.Equal(t, DefaultBookBaseURL, cfg.BookBaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbmc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 12\nlog_level: warn\nretry_max: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.PageSize)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 5, cfg.RetryMax)
}

func TestLoad_MissingExplicitFileIsError(t *testing.T) {
	// 显式给出的路径必须有效。
	_, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrCodeInvalid, ce.Code)
}

func TestLoad_ValidationRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"基址不是 URL", map[string]string{"DBMC_MOVIE_BASE_URL": "not a url"}},
		{"基址非 http", map[string]string{"DBMC_BOOK_BASE_URL": "ftp://example.com"}},
		{"page_size 为零", map[string]string{"DBMC_PAGE_SIZE": "0"}},
		{"retry_max 为零", map[string]string{"DBMC_RETRY_MAX": "0"}},
		{"延迟为负", map[string]string{"DBMC_BASE_DELAY": "-1s"}},
		{"重试区间颠倒", map[string]string{"DBMC_RETRY_PAUSE_MIN": "10s", "DBMC_RETRY_PAUSE_MAX": "5s"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			require.Equal(t, ErrCodeInvalid, ce.Code)
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("底层原因")
	e := &Error{Code: ErrCodeInvalid, Err: inner}
	require.ErrorIs(t, e, inner)
	require.Contains(t, e.Error(), ErrCodeInvalid)
}
