package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// ErrSecretKeyMissing is returned when no token signing secret is configured.
// The process must refuse to start in that case.
var ErrSecretKeyMissing = errors.New("SECRET_KEY is not set")

type Config struct {
	APIPort   int    `mapstructure:"api_port"`
	SecretKey string `mapstructure:"secret_key"`
	// TokenTTL is the session token lifetime in seconds.
	TokenTTL int `mapstructure:"token_ttl"`
	Database struct {
		Type     string `mapstructure:"type"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		Path     string `mapstructure:"path"`
		MaxConns int    `mapstructure:"maxConns"`
		MaxIdle  int    `mapstructure:"maxIdle"`
	} `mapstructure:"database"`
}

// LoadConfig loads the configuration from file and environment variables.
// The environment always wins over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Environment names used by deployments
	v.BindEnv("secret_key", "SECRET_KEY")
	v.BindEnv("api_port", "API_PORT")
	v.BindEnv("token_ttl", "TOKEN_TTL")
	v.BindEnv("database.type", "DATABASE_TYPE")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.path", "DB_PATH")

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; environment variables alone are fine.
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// The signing secret is the one thing we refuse to default.
	if cfg.SecretKey == "" {
		return nil, ErrSecretKeyMissing
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
		log.Println("APIPort not specified, using default 8081")
	}

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 3600
		log.Println("Token TTL not specified, using default 3600s")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
		log.Println("Database type not specified, using default postgres")
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/combact.db"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 25
	}
	if cfg.Database.MaxIdle == 0 {
		cfg.Database.MaxIdle = 5
	}

	return &cfg, nil
}
