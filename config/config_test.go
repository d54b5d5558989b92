package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerWith_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadServerWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./output", cfg.WorkDir)
	assert.Equal(t, 30, cfg.Tolerance)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, int64(32<<20), cfg.MaxUpload)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
	assert.Equal(t, "@every 10m", cfg.CleanupSpec)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadServerWith_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadServerWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"GIFBG_ADDR":       "127.0.0.1:9000",
		"GIFBG_TOLERANCE":  "12",
		"GIFBG_RESULT_TTL": "5m",
	}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 12, cfg.Tolerance)
	assert.Equal(t, 5*time.Minute, cfg.ResultTTL)
}

func TestLoadServerWith_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"negative tolerance", map[string]string{"GIFBG_TOLERANCE": "-1"}, "GIFBG_TOLERANCE"},
		{"zero workers", map[string]string{"GIFBG_WORKERS": "0"}, "GIFBG_WORKERS"},
		{"not a number", map[string]string{"GIFBG_TOLERANCE": "abc"}, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadServerWith(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
