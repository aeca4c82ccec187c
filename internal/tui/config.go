package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/benvon/simple-todo/internal/client"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the client's environment variables (TODO_SERVER_URL, ...)
const EnvPrefix = "TODO"

// Config holds the terminal client settings
type Config struct {
	ServerURL string `mapstructure:"server_url" yaml:"server_url"`
	Theme     string `mapstructure:"theme" yaml:"theme"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"server":   "server_url",
	"theme":    "theme",
	"log-file": "log_file",
}

// DefaultConfigPath returns ~/.config/simple-todo/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "simple-todo", "config.yaml")
}

// DefaultLogPath is where the client logs when log_file is unset
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "simple-todo-client.log")
}

// LoadConfig resolves the client configuration. Precedence, highest first:
// flags that were set, TODO_* environment variables, the YAML file at path, defaults.
// A missing file is not an error.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("server_url", client.DefaultBaseURL)
	v.SetDefault("theme", DefaultThemeName)
	v.SetDefault("log_file", DefaultLogPath())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := ThemeByName(cfg.Theme); err != nil {
		return nil, err
	}
	return &cfg, nil
}
