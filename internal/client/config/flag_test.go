package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "127.0.0.1:9090", "-i", "5", "-p", "ios", "-m", "live", "-d", "x.db"},
			expected: &Config{
				ServerEndpointAddr: "127.0.0.1:9090",
				StatusPollInterval: 5 * time.Second,
				SuccessCloseDelay:  3 * time.Second,
				Platform:           common.PlatformIOS,
				IsLive:             true,
				DatabasePath:       "x.db",
			},
		},
		{
			name: "commands and foreign flags are ignored",
			args: []string{"cmd", "-c", "cfg.json", "distill", "example.com", "-p", "android"},
			expected: &Config{
				ServerEndpointAddr: "127.0.0.1:50051",
				StatusPollInterval: time.Second,
				SuccessCloseDelay:  3 * time.Second,
				Platform:           common.PlatformAndroid,
				DatabasePath:       "distillr.db",
			},
		},
		{name: "incorrect poll interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "zero poll interval", args: []string{"cmd", "-i", "0"}, expectPanic: true},
		{name: "unknown platform", args: []string{"cmd", "-p", "desktop"}, expectPanic: true},
		{name: "unknown environment", args: []string{"cmd", "-m", "prod"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := base()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
