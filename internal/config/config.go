package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	UpstreamTimeout time.Duration

	// ProfileID scopes the persisted cart the way a browser profile scopes
	// localStorage.
	ProfileID string
	RedisAddr string
	Ephemeral bool

	// Upstream base URLs (inside docker network recommended)
	CatalogURL string
	OrderURL   string
	PaymentURL string

	// Bearer credential issued at login. Empty means unauthenticated.
	AuthToken string

	// Where the payment gateway redirects the user back to.
	PaymentReturnURL string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := getenv("PORT", "8090")
	timeout := parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second)

	cfg := Config{
		Port:            port,
		UpstreamTimeout: timeout,

		ProfileID: getenv("PROFILE_ID", "default"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		Ephemeral: parseBool(getenv("EPHEMERAL_STORE", "false")),

		CatalogURL: getenv("CATALOG_URL", "http://catalog-service-java:8086"),
		OrderURL:   getenv("ORDER_URL", "http://order-service-go:8082"),
		PaymentURL: getenv("PAYMENT_URL", "http://payment-service-dotnet:8080"),

		AuthToken: getenv("AUTH_TOKEN", ""),

		PaymentReturnURL: getenv("PAYMENT_RETURN_URL", "http://localhost:"+port+"/payment/return"),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
