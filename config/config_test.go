package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("GO_ENV", "config_test_missing")

	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "secret", cfg.JwtSecret)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 360, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestNewConfigRejectsMongoWithoutURI(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "mongodb")
	t.Setenv("MONGODB_CONNECTION_URI", "")
	t.Setenv("GO_ENV", "config_test_missing")

	assert.Nil(t, NewConfig())
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := &Configuration{StorageDriver: "sqlite", AccessTokenExpireMinutes: 10}
	assert.Error(t, cfg.Validate())
}
