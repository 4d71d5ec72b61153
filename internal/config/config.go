package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Students StudentsConfig `mapstructure:"students"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout_seconds"`
	WriteTimeout int      `mapstructure:"write_timeout_seconds"`
	IdleTimeout  int      `mapstructure:"idle_timeout_seconds"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URI            string `mapstructure:"uri"`
	Name           string `mapstructure:"name"`
	ConnectTimeout int    `mapstructure:"connect_timeout_seconds"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// StudentsConfig carries the deployment-defined gender labels. The set is
// fixed at three values; the labels themselves are configurable.
type StudentsConfig struct {
	GenderLabels []string `mapstructure:"gender_labels"`
}

func Load() (*Config, error) {
	// Get environment from ENV, default to "local"
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	// Set up Viper
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/configs") // Kubernetes mount
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs") // IDE from cmd/

	// Try to read config file (optional - will use ENV if not found)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("No config file found (will use ENV variables): %v\n", err)
	}

	// Enable environment variable overrides (these take precedence over config file)
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("database.uri", "MONGODB_URL")
	viper.BindEnv("database.name", "MONGODB_DATABASE")
	viper.BindEnv("nats.url", "NATS_URL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)
	config.Env = env

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.Database.URI == "" {
		cfg.Database.URI = "mongodb://localhost:27017"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "students"
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = 10
	}
	if len(cfg.Students.GenderLabels) != 3 {
		cfg.Students.GenderLabels = []string{"Male", "Female", "Other"}
	}
}
