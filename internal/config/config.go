package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type CASConfig struct {
	// ServerURL is the base URL of the campus CAS service,
	// e.g. https://cas.sfu.ca/cas
	ServerURL string `mapstructure:"server_url"`
	// ServiceURL is our registered service URL sent during ticket
	// validation. If empty, the client-supplied value is used.
	ServiceURL string `mapstructure:"service_url"`
}

type SessionConfig struct {
	TTLHours int `mapstructure:"ttl_hours"` // default 12 (half a day)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ExamBankConfig struct {
	Dir            string `mapstructure:"dir"`
	TokenSecret    string `mapstructure:"token_secret"`
	TokenExpireMin int    `mapstructure:"token_expire_min"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CAS      CASConfig      `mapstructure:"cas"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	ExamBank ExamBankConfig `mapstructure:"exam_bank"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. CSSS_SERVER_PORT=9000
		v.SetEnvPrefix("CSSS")
		v.AutomaticEnv()

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if c.Session.TTLHours <= 0 {
			c.Session.TTLHours = 12
		}
		if c.ExamBank.TokenExpireMin <= 0 {
			c.ExamBank.TokenExpireMin = 10
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
