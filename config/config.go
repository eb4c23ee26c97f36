package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Either DATABASE_URL or the discrete DB_* fields.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"craftcart"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	GatewayKeyID   string `envconfig:"GATEWAY_KEY_ID"`
	GatewaySecret  string `envconfig:"GATEWAY_KEY_SECRET"`
	GatewayBaseURL string `envconfig:"GATEWAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	Currency       string `envconfig:"GATEWAY_CURRENCY" default:"INR"`

	RedisAddr    string `envconfig:"REDIS_ADDR"`    // empty disables the catalog cache
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"` // empty disables event publishing

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
