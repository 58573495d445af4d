package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-g", ":6000", "-d", "db", "-s", "secret", "-t", "30",
				"-r", "20", "-b", "2", "-i", "1000", "-l", "debug", "-f", "text",
			},
			expected: &Config{
				HTTPAddr:                "127.0.0.1:9090",
				GRPCHealthAddr:          ":6000",
				DatabaseDSN:             "db",
				SecretKey:               "secret",
				SessionValidityDuration: 30 * time.Minute,
				LoginRatePerMinute:      20,
				LoginBurst:              2,
				HashIterations:          1000,
				LogLevel:                "debug",
				LogFormat:               "text",
			},
		},
		{
			name:        "bad integer",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
