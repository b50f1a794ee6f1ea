package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Resume token backends.
const (
	ResumeBackendSQL   = "sql"
	ResumeBackendRedis = "redis"
)

// Caller authentication modes.
const (
	AuthModeOff = "off"
	AuthModeJWT = "jwt"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Shield eviction interval (default: 1h)

	StoreDriver   string // sqlite or postgres (default: sqlite)
	DatabaseFile  string // SQLite database file (default: gate.db)
	DatabaseURL   string // Postgres DSN, required for the postgres driver
	ResumeBackend string // sql or redis (default: sql)
	RedisAddr     string // default: localhost:6379
	RedisPassword string
	RedisDB       int

	MasterKeyPath     string // Optional: file holding vault master key material
	MasterKeySSMParam string // Optional: SSM SecureString holding it
	MasterKey         string // Optional: material from GATE_MASTER_KEY

	AuthMode      string        // off or jwt (default: off)
	JWKSURL       string        // Required in jwt mode
	JWTIssuer     string        // Optional: expected iss
	JWTAudience   []string      // Optional: accepted aud values, comma separated
	JWKSRefresh   time.Duration // JWKS refresh interval (default: 5m)
	ShieldIdleTTL time.Duration // Forget sessions idle this long; 0 keeps them (default: 0)

	KafkaBrokers []string // Optional: threat events are dropped when empty
	KafkaTopic   string   // default: gate.threats
}

func LoadConfig() Config {
	return Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		StoreDriver:   strings.ToLower(getEnvOrDefault("GATE_STORE_DRIVER", DriverSQLite)),
		DatabaseFile:  getEnvOrDefault("GATE_DATABASE_FILE", "gate.db"),
		DatabaseURL:   os.Getenv("GATE_DATABASE_URL"),
		ResumeBackend: strings.ToLower(getEnvOrDefault("GATE_RESUME_BACKEND", ResumeBackendSQL)),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		MasterKeyPath:     os.Getenv("GATE_MASTER_KEY_PATH"),
		MasterKeySSMParam: os.Getenv("GATE_MASTER_KEY_SSM_PARAM"),
		MasterKey:         os.Getenv("GATE_MASTER_KEY"),

		AuthMode:      strings.ToLower(getEnvOrDefault("GATE_AUTH_MODE", AuthModeOff)),
		JWKSURL:       os.Getenv("GATE_JWKS_URL"),
		JWTIssuer:     os.Getenv("GATE_JWT_ISSUER"),
		JWTAudience:   getEnvListOrDefault("GATE_JWT_AUDIENCE", nil),
		JWKSRefresh:   getEnvDurationOrDefault("GATE_JWKS_REFRESH", 5*time.Minute),
		ShieldIdleTTL: getEnvDurationOrDefault("GATE_SHIELD_IDLE_TTL", 0),

		KafkaBrokers: getEnvListOrDefault("GATE_KAFKA_BROKERS", nil),
		KafkaTopic:   getEnvOrDefault("GATE_KAFKA_TOPIC", "gate.threats"),
	}
}

// Validate rejects combinations the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("GATE_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("GATE_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GATE_STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.ResumeBackend {
	case ResumeBackendSQL:
	case ResumeBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis resume backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GATE_RESUME_BACKEND %q", c.ResumeBackend))
	}

	switch c.AuthMode {
	case AuthModeOff:
	case AuthModeJWT:
		if c.JWKSURL == "" {
			errs = append(errs, errors.New("GATE_JWKS_URL is required when GATE_AUTH_MODE=jwt"))
		}
		if c.JWKSRefresh <= 0 {
			errs = append(errs, errors.New("GATE_JWKS_REFRESH must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GATE_AUTH_MODE %q", c.AuthMode))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.ShieldIdleTTL < 0 {
		errs = append(errs, errors.New("GATE_SHIELD_IDLE_TTL must not be negative"))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("GATE_KAFKA_TOPIC is required when brokers are set"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
