package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-a", "127.0.0.1:50051", "-p", "web"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", "127.0.0.1:50051"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "positional command is not treated as a flag value of an unknown flag",
			args:         []string{"-x", "status", "-a", "h:1"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", "h:1"},
		},
		{
			name:         "flag at end without value",
			args:         []string{"-i"},
			allowedFlags: []string{"-i"},
			want:         []string{"-i"},
		},
		{
			name:         "next dash token is not consumed",
			args:         []string{"-c", "-config=alt.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "-config=alt.json"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-p", "ios", "-p", "android"},
			allowedFlags: []string{"-p"},
			want:         []string{"-p", "ios", "-p", "android"},
		},
		{
			name:         "empty args give empty, non-nil slice",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositional(t *testing.T) {
	valueFlags := []string{"-a", "-c", "-p"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", nil, []string{}},
		{"command only", []string{"status"}, []string{"status"}},
		{"command after flags", []string{"-a", "h:1", "-p", "web", "distill", "example.com"}, []string{"distill", "example.com"}},
		{"equals flags do not consume", []string{"-a=h:1", "distill", "example.com"}, []string{"distill", "example.com"}},
		{"unknown flag does not consume", []string{"-v", "status"}, []string{"status"}},
		{"lone dash is positional", []string{"-"}, []string{"-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.args, valueFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config mixed with other flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", "h:1", "-config", "/path/long.json", "status"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
