package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DBDriver is one of sqlite, postgres or mongo.
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"data.db"`
	MongoURI    string `envconfig:"MONGOURI"`
	MongoDB     string `envconfig:"DB" default:"property_listing"`

	// An empty RedisAddr selects the in-process cache.
	RedisAddr string        `envconfig:"REDIS_ADD"`
	RedisPass string        `envconfig:"REDIS_PASS"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	JWTKey          string        `envconfig:"JWT_KEY" required:"true"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	// An empty SMTPHost logs welcome mails instead of sending them.
	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"no-reply@property-listing.local"`
	// SMTPTLSMode is auto, ssl or none.
	SMTPTLSMode string `envconfig:"SMTP_TLS_MODE" default:"auto"`

	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout        time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout       time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then the process environment.
// envFile may be empty to use ./.env.
func Load(envFile string) (Config, bool, error) {
	var err error
	if envFile != "" {
		err = godotenv.Load(envFile)
	} else {
		err = godotenv.Load()
	}
	loadedEnv := err == nil

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, loadedEnv, fmt.Errorf("load config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, loadedEnv, err
	}
	return c, loadedEnv, nil
}

func (c Config) validate() error {
	if c.JWTKey == "" {
		return fmt.Errorf("JWT_KEY not set in environment")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGOURI not set in environment")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}
	return nil
}
