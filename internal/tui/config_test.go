package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benvon/simple-todo/internal/client"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file mutate the process environment and therefore do not run in parallel.

func clearClientEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TODO_SERVER_URL", "TODO_THEME", "TODO_LOG_FILE"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	fs.String("server", client.DefaultBaseURL, "")
	fs.String("theme", DefaultThemeName, "")
	fs.String("log-file", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults without a file",
			want: Config{ServerURL: client.DefaultBaseURL, Theme: "classic", LogFile: DefaultLogPath()},
		},
		{
			name: "file values",
			file: "server_url: http://todo.internal:9000\ntheme: neon\nlog_file: /tmp/todo.log\n",
			want: Config{ServerURL: "http://todo.internal:9000", Theme: "neon", LogFile: "/tmp/todo.log"},
		},
		{
			name: "env overrides file",
			file: "server_url: http://todo.internal:9000\ntheme: neon\n",
			env:  map[string]string{"TODO_THEME": "mono", "TODO_SERVER_URL": "http://env.example"},
			want: Config{ServerURL: "http://env.example", Theme: "mono", LogFile: DefaultLogPath()},
		},
		{
			name: "flags override env",
			env:  map[string]string{"TODO_THEME": "mono"},
			args: []string{"--theme", "neon", "--log-file", "/var/log/todo.log"},
			want: Config{ServerURL: client.DefaultBaseURL, Theme: "neon", LogFile: "/var/log/todo.log"},
		},
		{
			name: "unset flags do not mask the file",
			file: "theme: mono\n",
			args: []string{},
			want: Config{ServerURL: client.DefaultBaseURL, Theme: "mono", LogFile: DefaultLogPath()},
		},
		{
			name:    "unknown theme",
			file:    "theme: sparkly\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "theme: [neon\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearClientEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			var flags *pflag.FlagSet
			if tt.args != nil {
				flags = newFlags(t, tt.args...)
			}

			cfg, err := LoadConfig(path, flags)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestLoadConfig_EmptyPathSkipsFile(t *testing.T) {
	clearClientEnv(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultThemeName, cfg.Theme)
}
