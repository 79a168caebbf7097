package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Data DataConfig `mapstructure:"data"`
	Log  LogConfig  `mapstructure:"log"`
}

// DataConfig locates the flat-file catalog collections. One JSON file per
// collection; the files are not safe for concurrent writers from multiple
// processes.
type DataConfig struct {
	Dir           string `mapstructure:"dir"`
	ProvidersFile string `mapstructure:"providers_file"`
	AgentsFile    string `mapstructure:"agents_file"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or a file path
}

// Load reads layered configuration, lowest priority first: built-in
// defaults, the global ~/.agenthub/config.yaml, a project-local
// config.yaml, then AGENTHUB_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	home, _ := os.UserHomeDir()
	v.AddConfigPath(filepath.Join(home, ".agenthub"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		local := viper.New()
		local.SetConfigFile("config.yaml")
		if err := local.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read local config: %w", err)
		}
		if err := v.MergeConfigMap(local.AllSettings()); err != nil {
			return nil, fmt.Errorf("merge local config: %w", err)
		}
	}

	v.SetEnvPrefix("AGENTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("data.dir", filepath.Join(home, ".agenthub", "data"))
	v.SetDefault("data.providers_file", "providers.json")
	v.SetDefault("data.agents_file", "agents.json")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}
