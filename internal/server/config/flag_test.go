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
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-g", "127.0.0.1:9091", "-d", "memory", "-s", "secret",
				"-t", "5", "-r", "60", "-k", "4", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:9090",
				EndpointAddrGRPC:             "127.0.0.1:9091",
				DatabaseDSN:                  "memory",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  5 * time.Minute,
				RefreshTokenValidityDuration: 60 * time.Minute,
				PasswordHashCost:             4,
				LogLevel:                     "debug",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"cmd", "-c", "cfg.json", "-test.v", "-s", "secret"},
			expected: &Config{
				SecretKey: "secret",
			},
		},
		{
			name:        "non-numeric lifetime panics",
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
