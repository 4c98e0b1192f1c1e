package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RECONCILE_PURGE_EXPIRED", "")
	t.Setenv("NOTIFY_TIMEOUT_SEC", "")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.False(t, cfg.ReconcilePurge)
	assert.Equal(t, 5*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 100, cfg.RecommendationLimit)
	assert.Equal(t, "room_types", cfg.Elasticsearch.Index)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECONCILE_PURGE_EXPIRED", "true")
	t.Setenv("NOTIFY_TIMEOUT_SEC", "2")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("ELASTICSEARCH_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.ReconcilePurge)
	assert.Equal(t, 2*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Second, cfg.Elasticsearch.Timeout)
}
