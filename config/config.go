package config

import (
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ListenAddr     string `mapstructure:"listen_addr"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	LogLevel       string `mapstructure:"log_level"`
	TurnSeconds    int    `mapstructure:"turn_seconds"`
	GraceSeconds   int    `mapstructure:"grace_seconds"`
	WordsFile      string `mapstructure:"words_file"`
}

// Origins splits the comma separated allowed_origins value.
func (c *AppConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// Load reads configuration from SKETCHROOM_* environment variables,
// falling back to defaults suitable for local development.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvPrefix("sketchroom")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":5000")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("turn_seconds", 60)
	v.SetDefault("grace_seconds", 3)
	v.SetDefault("words_file", "")

	// AutomaticEnv alone does not surface env values through Unmarshal,
	// the keys have to be bound explicitly.
	for _, key := range []string{
		"listen_addr", "allowed_origins", "log_level",
		"turn_seconds", "grace_seconds", "words_file",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
