package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, mapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddress)
	assert.Equal(t, "marketplace", cfg.MongoDBName)
	assert.Equal(t, "admin_notifications", cfg.NotifyQueue)
	assert.Equal(t, 5, cfg.NotifyAttempts)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	cfg, err := load(nil, mapLookup(map[string]string{
		"PORT":                "9090",
		"MONGO_URI":           "mongodb://mongo:27017",
		"MONGO_DB_NAME":       "admin",
		"NOTIFY_MAX_ATTEMPTS": "3",
		"SHUTDOWN_TIMEOUT":    "2s",
		"TELEGRAM_TOKEN":      "token",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.RunAddress)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "admin", cfg.MongoDBName)
	assert.Equal(t, 3, cfg.NotifyAttempts)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "token", cfg.TelegramToken)
}

func TestLoadRunAddressWinsOverPort(t *testing.T) {
	cfg, err := load(nil, mapLookup(map[string]string{"PORT": "9090", "RUN_ADDRESS": "127.0.0.1:7000"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.RunAddress)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := load([]string{"-a", ":7070", "-log-level", "debug"}, mapLookup(map[string]string{"PORT": "9090"}))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.RunAddress)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	cfg, err := load(nil, mapLookup(map[string]string{
		"NOTIFY_MAX_ATTEMPTS": "-1",
		"REQUEST_TIMEOUT":     "soon",
	}))
	require.NoError(t, err)
	assert.Equal(t, defaultNotifyAttempts, cfg.NotifyAttempts)
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	_, err := load([]string{"-nope"}, mapLookup(nil))
	assert.Error(t, err)
}
