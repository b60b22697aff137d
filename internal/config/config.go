package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	PaymentStorageURL         string `env:"PAYMENT_STORAGE_URL,required"`
	AppsStorageURL            string `env:"APPS_STORAGE_URL,required"`
	ProviderConfigurationsURL string `env:"PROVIDER_CONFIGURATIONS_URL,required"`
	// RiskProviderURL carries a {SERVICE_NAME} placeholder that is replaced
	// per request with risk-{environment}-{provider name}.
	RiskProviderURL string `env:"RISK_PROVIDER_URL,required"`

	TokenizationURL      string `env:"TOKENIZATION_URL,required"`
	TokenizationUsername string `env:"TOKENIZATION_USERNAME,required"`
	TokenizationPassword string `env:"TOKENIZATION_PASSWORD,required"`

	Environment string `env:"ENVIRONMENT,required"`

	DefaultRequestRetries int `env:"DEFAULT_REQUEST_RETRIES" envDefault:"3"`
	RequestTimeoutMS      int `env:"REQUEST_TIMEOUT_MS" envDefault:"5000"`
	RiskRequestTimeoutMS  int `env:"RISK_REQUEST_TIMEOUT_MS" envDefault:"15000"`
	MaxActionsForPayment  int `env:"MAX_ACTIONS_FOR_PAYMENT" envDefault:"20"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	Port     int    `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	// A local .env is optional; deployments inject everything through the
	// environment.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) RiskRequestTimeout() time.Duration {
	return time.Duration(c.RiskRequestTimeoutMS) * time.Millisecond
}
