// Package config provides application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig is the server-facing slice of the configuration.
type ServerConfig interface {
	GetServerPort() string
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetIdleTimeout() time.Duration
}

// DatabaseConfig is the hosted-database slice of the configuration.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// AuthConfig is the hosted-auth slice of the configuration.
type AuthConfig interface {
	GetAuthTokenURL() string
	GetAuthClientID() string
	GetAuthClientSecret() string
	GetAuthRefreshToken() string
	GetSessionExpiryBuffer() time.Duration
}

// RateLimitConfig is the rate limiting slice of the configuration.
type RateLimitConfig interface {
	GetRequestsPerMinute() int
	GetRedisAddr() string
	UseRedisRateLimit() bool
}

// AppConfig implements all configuration interfaces.
type AppConfig struct {
	serverPort          string
	databaseURL         string
	authTokenURL        string
	authClientID        string
	authClientSecret    string
	authRefreshToken    string
	environment         string
	logLevel            string
	redisAddr           string
	readTimeout         time.Duration
	writeTimeout        time.Duration
	idleTimeout         time.Duration
	sessionExpiryBuffer time.Duration
	requestsPerMinute   int
	useRedisRateLimit   bool
}

// NewConfig builds the configuration from environment variables with
// development defaults.
func NewConfig() *AppConfig {
	return &AppConfig{
		serverPort:          getEnvString("SERVER_PORT", "8080"),
		databaseURL:         getEnvString("DATABASE_URL", "postgres://localhost:5432/clientflow"),
		authTokenURL:        getEnvString("AUTH_TOKEN_URL", "http://localhost:9999/token"),
		authClientID:        getEnvString("AUTH_CLIENT_ID", "clientflow"),
		authClientSecret:    getEnvString("AUTH_CLIENT_SECRET", ""),
		authRefreshToken:    getEnvString("AUTH_REFRESH_TOKEN", ""),
		environment:         getEnvString("ENVIRONMENT", "development"),
		logLevel:            getEnvString("LOG_LEVEL", "info"),
		redisAddr:           getEnvString("REDIS_ADDR", ""),
		readTimeout:         getEnvDuration("READ_TIMEOUT", "15s"),
		writeTimeout:        getEnvDuration("WRITE_TIMEOUT", "15s"),
		idleTimeout:         getEnvDuration("IDLE_TIMEOUT", "60s"),
		sessionExpiryBuffer: getEnvDuration("SESSION_EXPIRY_BUFFER", "5m"),
		requestsPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		useRedisRateLimit:   getEnvBool("RATE_LIMIT_USE_REDIS", false),
	}
}

// GetServerPort returns the server port.
func (c *AppConfig) GetServerPort() string { return c.serverPort }

// GetReadTimeout returns the server read timeout.
func (c *AppConfig) GetReadTimeout() time.Duration { return c.readTimeout }

// GetWriteTimeout returns the server write timeout.
func (c *AppConfig) GetWriteTimeout() time.Duration { return c.writeTimeout }

// GetIdleTimeout returns the server idle timeout.
func (c *AppConfig) GetIdleTimeout() time.Duration { return c.idleTimeout }

// GetDatabaseURL returns the hosted database DSN.
func (c *AppConfig) GetDatabaseURL() string { return c.databaseURL }

// GetAuthTokenURL returns the hosted auth token endpoint.
func (c *AppConfig) GetAuthTokenURL() string { return c.authTokenURL }

// GetAuthClientID returns the OAuth client id.
func (c *AppConfig) GetAuthClientID() string { return c.authClientID }

// GetAuthClientSecret returns the OAuth client secret.
func (c *AppConfig) GetAuthClientSecret() string { return c.authClientSecret }

// GetAuthRefreshToken returns the bootstrap refresh token.
func (c *AppConfig) GetAuthRefreshToken() string { return c.authRefreshToken }

// GetSessionExpiryBuffer returns the proactive-refresh buffer.
func (c *AppConfig) GetSessionExpiryBuffer() time.Duration { return c.sessionExpiryBuffer }

// GetRequestsPerMinute returns the API rate limit.
func (c *AppConfig) GetRequestsPerMinute() int { return c.requestsPerMinute }

// GetRedisAddr returns the Redis address for distributed rate limiting.
func (c *AppConfig) GetRedisAddr() string { return c.redisAddr }

// UseRedisRateLimit reports whether rate limiting should go through Redis.
func (c *AppConfig) UseRedisRateLimit() bool { return c.useRedisRateLimit }

// GetEnvironment returns the deployment environment.
func (c *AppConfig) GetEnvironment() string { return c.environment }

// GetLogLevel returns the configured log level.
func (c *AppConfig) GetLogLevel() string { return c.logLevel }

// IsProduction reports whether this is a production deployment.
func (c *AppConfig) IsProduction() bool { return c.environment == "production" }

// Validate checks the configuration is usable.
func (c *AppConfig) Validate() error {
	if c.serverPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.databaseURL == "" {
		return fmt.Errorf("database URL cannot be empty")
	}
	if c.authTokenURL == "" {
		return fmt.Errorf("auth token URL cannot be empty")
	}
	if c.environment != "development" && c.environment != "staging" && c.environment != "production" {
		return fmt.Errorf("environment must be one of: development, staging, production")
	}
	if c.useRedisRateLimit && c.redisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when RATE_LIMIT_USE_REDIS is set")
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second
}
