package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"event_registration"`

	JWTSecret   string `envconfig:"JWT_SECRET" default:"super-secret-key-change-me"`
	TokenTTLMin int    `envconfig:"TOKEN_TTL_MIN" default:"60"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return &cfg
}
