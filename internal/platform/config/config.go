package config

import (
	"errors"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // RECURRING_TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort              = "8080"
	defaultRateLimit         = "100-M"
	defaultRecurringInterval = time.Hour
	defaultAMQPExchange      = "fireflow"
	defaultAMQPRoutingKey    = "recurring.occurrence.created"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RunMigrations bool
	// DBMaxConns caps the pool; zero keeps the pgx default.
	DBMaxConns int32
	// DBSimpleProtocol is required behind the Supabase transaction pooler, which
	// does not support prepared statements.
	DBSimpleProtocol bool

	// Supabase access tokens are HS256-signed with the project's JWT secret.
	JWTSecret   string
	JWTAudience string

	FrontendBaseURL string
	RateLimit       string

	PosthogAPIKey   string
	PosthogEndpoint string

	// Occurrence events. An empty AMQPURL disables publishing.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Recurring generator scheduling.
	RecurringInterval time.Duration
	RecurringLocation *time.Location
	CronSecret        string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("DB_MAX_CONNS", 0)
	v.SetDefault("DB_SIMPLE_PROTOCOL", false)
	v.SetDefault("SUPABASE_JWT_SECRET", "")
	v.SetDefault("JWT_AUDIENCE", "authenticated")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", defaultAMQPExchange)
	v.SetDefault("AMQP_ROUTING_KEY", defaultAMQPRoutingKey)
	v.SetDefault("RECURRING_INTERVAL", defaultRecurringInterval.String())
	v.SetDefault("RECURRING_TIMEZONE", "UTC")
	v.SetDefault("CRON_SECRET", "")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      v.GetString("PGSQL_URL"),
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		DBMaxConns:       v.GetInt32("DB_MAX_CONNS"),
		DBSimpleProtocol: v.GetBool("DB_SIMPLE_PROTOCOL"),
		JWTSecret:        v.GetString("SUPABASE_JWT_SECRET"),
		JWTAudience:      v.GetString("JWT_AUDIENCE"),
		FrontendBaseURL:  v.GetString("FRONTEND_BASE_URL"),
		RateLimit:        v.GetString("RATE_LIMIT"),
		PosthogAPIKey:    v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:  v.GetString("POSTHOG_ENDPOINT"),
		AMQPURL:          v.GetString("AMQP_URL"),
		AMQPExchange:     v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey:   v.GetString("AMQP_ROUTING_KEY"),
		CronSecret:       v.GetString("CRON_SECRET"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.DBMaxConns < 0 {
		log.Printf("Warning: Invalid value for DB_MAX_CONNS (%d). Using the driver default.\n", cfg.DBMaxConns)
		cfg.DBMaxConns = 0
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	intervalStr := v.GetString("RECURRING_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = defaultRecurringInterval
		log.Printf("Warning: Invalid value for RECURRING_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.RecurringInterval = interval

	tz := strings.TrimSpace(v.GetString("RECURRING_TIMEZONE"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
		log.Printf("Warning: Invalid value for RECURRING_TIMEZONE ('%s'). Defaulting to UTC.\n", tz)
	}
	cfg.RecurringLocation = loc

	return cfg, nil
}

// Validate reports configuration that makes the API server unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("PGSQL_URL is required"))
	}
	if c.JWTSecret == "" {
		if c.IsProduction {
			errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required in production"))
		} else {
			log.Println("Warning: SUPABASE_JWT_SECRET not set. Every authenticated request will be rejected.")
		}
	}
	return errors.Join(errs...)
}
