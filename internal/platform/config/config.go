package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string

	// PostgresDSN selects the persistent stores. Empty means in-memory.
	PostgresDSN string

	// RedisURL enables the session-status notifier. Empty disables pub/sub
	// and waiting rooms fall back to pure polling.
	RedisURL string

	// Kafka attendance event pipeline. Empty brokers disable publishing.
	KafkaBrokers    []string
	KafkaAttendance string

	// JWTSigningKey signs API access tokens; RoomSigningKey signs room join
	// tokens. Separate keys so a leaked room server key cannot forge API
	// credentials.
	JWTSigningKey   string
	RoomSigningKey  string
	RoomTokenIssuer string

	PollInterval      time.Duration
	CredentialGrace   time.Duration
	CredentialCeiling time.Duration
	ProviderTimeout   time.Duration
	GuestLinkTTL      time.Duration
	ShutdownTimeout   time.Duration
}

// RedisConfig carries connection tuning for the Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables with development
// defaults.
func FromEnv() Server {
	return Server{
		Addr:              envOr("LIVEGATE_ADDR", ":8080"),
		PostgresDSN:       os.Getenv("LIVEGATE_POSTGRES_DSN"),
		RedisURL:          os.Getenv("LIVEGATE_REDIS_URL"),
		KafkaBrokers:      splitNonEmpty(os.Getenv("LIVEGATE_KAFKA_BROKERS")),
		KafkaAttendance:   envOr("LIVEGATE_KAFKA_ATTENDANCE_TOPIC", "livegate.attendance"),
		JWTSigningKey:     envOr("LIVEGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RoomSigningKey:    envOr("LIVEGATE_ROOM_SIGNING_KEY", "dev-room-key-change-in-production"),
		RoomTokenIssuer:   envOr("LIVEGATE_ROOM_TOKEN_ISSUER", "livegate"),
		PollInterval:      envDuration("LIVEGATE_POLL_INTERVAL", 5*time.Second),
		CredentialGrace:   envDuration("LIVEGATE_CREDENTIAL_GRACE", 15*time.Minute),
		CredentialCeiling: envDuration("LIVEGATE_CREDENTIAL_CEILING", 4*time.Hour),
		ProviderTimeout:   envDuration("LIVEGATE_PROVIDER_TIMEOUT", 5*time.Second),
		GuestLinkTTL:      envDuration("LIVEGATE_GUEST_LINK_TTL", 24*time.Hour),
		ShutdownTimeout:   envDuration("LIVEGATE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Redis derives a RedisConfig with pool defaults.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
