package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Built from environment
// variables so main stays lean.
type Server struct {
	Addr string

	// Core investigation knobs
	InvestigationTimeout time.Duration
	FailureThreshold     int

	// Collaborators
	AnalyzerURL     string
	AnalyzerTimeout time.Duration

	// Persistence
	PostgresDSN string
	Redis       RedisConfig

	// Audit
	KafkaBrokers []string
	AuditTopic   string
	AuditBuffer  int

	// Auth
	JWTSigningKey string
	APIKeyHash    string
}

// RedisConfig describes the optional verdict cache.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// FromEnv builds a Server config from ARGUS_* environment variables.
func FromEnv() Server {
	return Server{
		Addr:                 envOr("ARGUS_ADDR", ":8080"),
		InvestigationTimeout: envDuration("ARGUS_INVESTIGATION_TIMEOUT", 60*time.Second),
		FailureThreshold:     envInt("ARGUS_FAILURE_THRESHOLD", 3),
		AnalyzerURL:          os.Getenv("ARGUS_ANALYZER_URL"),
		AnalyzerTimeout:      envDuration("ARGUS_ANALYZER_TIMEOUT", 30*time.Second),
		PostgresDSN:          os.Getenv("ARGUS_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL: os.Getenv("ARGUS_REDIS_URL"),
			TTL: envDuration("ARGUS_REDIS_TTL", 15*time.Minute),
		},
		KafkaBrokers: envList("ARGUS_KAFKA_BROKERS"),
		AuditTopic:   envOr("ARGUS_AUDIT_TOPIC", "argus.audit"),
		AuditBuffer:  envInt("ARGUS_AUDIT_BUFFER", 256),
		// Dev default; override in anything resembling production.
		JWTSigningKey: envOr("ARGUS_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		APIKeyHash:    os.Getenv("ARGUS_API_KEY_HASH"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
