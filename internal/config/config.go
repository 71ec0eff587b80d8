package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	APIKey string `mapstructure:"GEMINI_API_KEY"`
	Model  string `mapstructure:"model"`
}

// Load reads configuration from the environment, optionally layered
// over a YAML file. A .env file in the working directory is loaded
// best-effort first.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("model", "gemini-2.5-flash")
	if err := v.BindEnv("GEMINI_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("model", "FLASHDECK_MODEL"); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
