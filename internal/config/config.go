package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort             int           `mapstructure:"APP_PORT"`
	DatabasePath        string        `mapstructure:"DATABASE_PATH"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	AgentURL            string        `mapstructure:"AGENT_URL"`
	HomeAssistantURL    string        `mapstructure:"HOME_ASSISTANT_URL"`
	HomeAssistantToken  string        `mapstructure:"HOME_ASSISTANT_TOKEN"`
	DevicePollInterval  time.Duration `mapstructure:"DEVICE_POLL_INTERVAL"`
	SystemProbeInterval time.Duration `mapstructure:"SYSTEM_PROBE_INTERVAL"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("DATABASE_PATH", "/data/frok.db")
	// Empty REDIS_ADDR disables the message cache.
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("AGENT_URL", "http://agent:8001")
	viper.SetDefault("HOME_ASSISTANT_URL", "http://homeassistant:8123")
	viper.SetDefault("HOME_ASSISTANT_TOKEN", "")
	viper.SetDefault("DEVICE_POLL_INTERVAL", "5s")
	viper.SetDefault("SYSTEM_PROBE_INTERVAL", "15s")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
