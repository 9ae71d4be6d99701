package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
)

const MIN_SECRET_LEN = 32

type Config struct {
	Port       int  `env:"PORT" envDefault:"9090"`
	IsTestMode bool `env:"TEST_MODE" envDefault:"false"`
	IsDebug    bool `env:"DEBUG" envDefault:"false"`

	Secret         string `env:"SECRET,required"`
	PasswordPepper string `env:"PASSWORD_PEPPER,required"`
	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	RedisURL       string `env:"REDIS_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	BcryptHasherCost          int           `env:"BCRYPT_HASHER_COST" envDefault:"12"`
	PasswordHasherConcurrency int           `env:"PASSWORD_HASHER_CONCURRENCY" envDefault:"4"`
	SessionTokenTTL           time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"2160h"`
	PasswordResetTTL          time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"10m"`
	RequestTimeout            time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	NotifierTimeout           time.Duration `env:"NOTIFIER_TIMEOUT" envDefault:"10s"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	AwsRegion            string  `env:"AWS_REGION,required"`
	AwsAccessKey         string  `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey         string  `env:"AWS_SECRET_KEY,required"`
	AwsEmailSender       string  `env:"AWS_EMAIL_SENDER,required"`
	PasswordResetBaseURL url.URL `env:"PASSWORD_RESET_BASE_URL,required"`
}

func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config, opts); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if len(c.Secret) < MIN_SECRET_LEN {
		return fmt.Errorf("SECRET must be at least %d characters long", MIN_SECRET_LEN)
	}
	if len(c.PasswordPepper) < MIN_SECRET_LEN {
		return fmt.Errorf("PASSWORD_PEPPER must be at least %d characters long", MIN_SECRET_LEN)
	}
	if c.PasswordPepper == c.Secret {
		return fmt.Errorf("PASSWORD_PEPPER must differ from SECRET")
	}
	if c.BcryptHasherCost < bcrypt.MinCost || c.BcryptHasherCost > bcrypt.MaxCost {
		return fmt.Errorf(
			"BCRYPT_HASHER_COST must be between %d and %d, got %d",
			bcrypt.MinCost,
			bcrypt.MaxCost,
			c.BcryptHasherCost,
		)
	}
	if c.PasswordHasherConcurrency < 1 {
		return fmt.Errorf("PASSWORD_HASHER_CONCURRENCY must be positive")
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{name: "SESSION_TOKEN_TTL", value: c.SessionTokenTTL},
		{name: "PASSWORD_RESET_TTL", value: c.PasswordResetTTL},
		{name: "REQUEST_TIMEOUT", value: c.RequestTimeout},
		{name: "NOTIFIER_TIMEOUT", value: c.NotifierTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if c.PasswordResetBaseURL.Scheme == "" || c.PasswordResetBaseURL.Host == "" {
		return fmt.Errorf("PASSWORD_RESET_BASE_URL must be an absolute URL")
	}
	return nil
}
