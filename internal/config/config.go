package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the shopd service. It is built
// once at startup and passed by value into component constructors; nothing
// reads the environment after Load returns.
type Config struct {
	Addr           string        `env:"ADDR,default=:8080"`
	DBDSN          string        `env:"DB_DSN,required"`
	JWTSigningKey  string        `env:"JWT_SIGNING_KEY,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=30m"`

	OTPExpiry time.Duration `env:"OTP_EXPIRY,default=360s"`

	ProjectName     string `env:"PROJECT_NAME,default=shopd"`
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL"`

	RazorpayKeyID     string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `env:"RAZORPAY_KEY_SECRET"`
	PaymentCurrency   string `env:"PAYMENT_CURRENCY,default=INR"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION,default=us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET,default=shopd-media"`

	NATSURL      string `env:"NATS_URL"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimit      int      `env:"RATE_LIMIT_PER_MINUTE,default=300"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
