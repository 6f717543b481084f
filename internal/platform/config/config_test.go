package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60*time.Second, cfg.InvestigationTimeout)
	assert.Equal(t, 3, cfg.FailureThreshold)
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "argus.audit", cfg.AuditTopic)
	assert.Equal(t, 256, cfg.AuditBuffer)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ARGUS_ADDR", ":9090")
	t.Setenv("ARGUS_INVESTIGATION_TIMEOUT", "30s")
	t.Setenv("ARGUS_FAILURE_THRESHOLD", "5")
	t.Setenv("ARGUS_KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")
	t.Setenv("ARGUS_REDIS_URL", "redis://localhost:6379/0")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.InvestigationTimeout)
	assert.Equal(t, 5, cfg.FailureThreshold)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("ARGUS_INVESTIGATION_TIMEOUT", "soon")
	t.Setenv("ARGUS_FAILURE_THRESHOLD", "many")

	cfg := FromEnv()

	assert.Equal(t, 60*time.Second, cfg.InvestigationTimeout)
	assert.Equal(t, 3, cfg.FailureThreshold)
}
