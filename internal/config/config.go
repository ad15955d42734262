package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server needs from the environment. It is
// loaded once at startup and injected into constructors; nothing reads the
// environment after that.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	PostgresURL string `envconfig:"POSTGRES_URL" required:"true"`

	// Identity service (token resolution, signup, login).
	IdentityURL string `envconfig:"IDENTITY_URL" required:"true"`
	IdentityKey string `envconfig:"IDENTITY_KEY" required:"true"`

	// Payment processor (hosted payment links).
	PaymentURL   string `envconfig:"PAYMENT_URL" default:"https://api.mercadopago.com"`
	PaymentToken string `envconfig:"PAYMENT_TOKEN" required:"true"`

	// The single privileged account allowed through admin routes.
	AdminEmail string `envconfig:"ADMIN_EMAIL" required:"true"`

	// Base URL the payment processor redirects buyers back to.
	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:8080"`

	ServiceName    string `envconfig:"SERVICE_NAME" default:"storefront-api"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
