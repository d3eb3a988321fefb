package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("IMPORT_ALLOWED_HOSTS", " Example.org , ,wiki.test")
	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"example.org", "wiki.test"}, cfg.ImportHosts)
}

func TestValidate(t *testing.T) {
	cfg := AppConfig{DBDriver: "sqlite", DevAuth: true}
	assert.NoError(t, cfg.Validate())

	cfg.DevAuth = false
	assert.Error(t, cfg.Validate())
	cfg.JWTSecret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.DBDriver = "postgres"
	assert.Error(t, cfg.Validate())
	cfg.DatabaseURL = "postgres://x"
	assert.NoError(t, cfg.Validate())

	cfg.BlobDriver = "s3"
	assert.Error(t, cfg.Validate())
}

func TestRedacted(t *testing.T) {
	cfg := AppConfig{JWTSecret: "secret", LLMAPIKey: ""}.Redacted()
	assert.Equal(t, "***", cfg.JWTSecret)
	assert.Equal(t, "", cfg.LLMAPIKey)
}
