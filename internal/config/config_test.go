package config

import (
	"os"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration should be valid: %v", err)
	}
}

func TestValidateRejectsInvalidPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("configuration with port 0 should be invalid")
	}
}

func TestValidateRejectsInvalidPageSize(t *testing.T) {
	cfg := Default()
	cfg.Storage.PageSize = 100 // not a multiple of 512
	if err := cfg.Validate(); err == nil {
		t.Error("configuration with invalid page size should be invalid")
	}
}

func TestLoadFromEnvAppliesOverrides(t *testing.T) {
	os.Setenv("DB_PORT", "9999")
	defer os.Unsetenv("DB_PORT")

	cfg := LoadFromEnv()
	if cfg.Server.Port != 9999 {
		t.Errorf("environment variable not applied: expected port 9999, got %d", cfg.Server.Port)
	}
}
