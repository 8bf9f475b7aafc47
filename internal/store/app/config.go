package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is populated from the environment. Secrets (Stripe keys, token
// secret, Resend key) have no defaults and must be provided.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"24h"`

	// Payment provider
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
	Currency            string `env:"CURRENCY" envDefault:"usd"`

	// Download tokens
	DownloadTokenSecret string `env:"DOWNLOAD_TOKEN_SECRET,required"`
	DownloadBaseURL     string `env:"DOWNLOAD_BASE_URL" envDefault:"https://store.fixthevuln.com"`

	// Post-checkout redirects
	SuccessURL string `env:"CHECKOUT_SUCCESS_URL" envDefault:"https://fixthevuln.com/store/success"`
	CancelURL  string `env:"CHECKOUT_CANCEL_URL" envDefault:"https://fixthevuln.com/store"`

	// Email
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"FixTheVuln <store@fixthevuln.com>"`
	NotifyAddress string `env:"SALE_NOTIFY_ADDRESS"`

	// Storage
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"store.db"`

	// Planner files: a local directory for dev, or an HTTP(S) bucket origin
	// for production. AssetBaseURL wins when both are set.
	AssetDir     string `env:"ASSET_DIR" envDefault:"./assets"`
	AssetBaseURL string `env:"ASSET_BASE_URL"`
	AssetToken   string `env:"ASSET_TOKEN"`

	// Quiz pool: optional remote JSON; the embedded pool is the fallback.
	QuizPoolURL string `env:"QUIZ_POOL_URL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"https://fixthevuln.com,http://localhost:8788,http://localhost:4173"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
