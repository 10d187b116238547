package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Port        int    `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
}

type UploadConfig struct {
	Dir        string   `mapstructure:"dir"`
	AllowedExt []string `mapstructure:"allowed_ext"`
}

// RelayEndpoint is one outbound webhook target (Apps Script URL).
type RelayEndpoint struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RelayConfig struct {
	Sheets RelayEndpoint `mapstructure:"sheets"`
	Drive  RelayEndpoint `mapstructure:"drive"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	mu        sync.Mutex
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
// The first successful load is cached; a failed load is not, so a later
// call with a fixed path can still succeed.
func Load(path string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if appConfig != nil {
		return appConfig, nil
	}

	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. PP_SERVER_PORT=9000
	v.SetEnvPrefix("PP") // patent portal
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	appConfig = &c
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
