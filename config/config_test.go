package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	cfg := Load()

	if cfg.JWT.Expiry != 7*24*time.Hour {
		t.Errorf("JWT.Expiry = %v, want 168h", cfg.JWT.Expiry)
	}
	if cfg.Server.MaxBodyBytes != 5<<20 {
		t.Errorf("Server.MaxBodyBytes = %d, want %d", cfg.Server.MaxBodyBytes, 5<<20)
	}
	if cfg.Password.BcryptCost != 10 {
		t.Errorf("Password.BcryptCost = %d, want 10", cfg.Password.BcryptCost)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Load()

	if cfg.Storage.Driver != StorageDriverRedis {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageDriverRedis)
	}
	if cfg.JWT.Expiry != time.Hour {
		t.Errorf("JWT.Expiry = %v, want 1h", cfg.JWT.Expiry)
	}
	if got := cfg.Server.CORSAllowOrigins; len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("CORSAllowOrigins = %v", got)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			cfg.Storage.Driver = StorageDriverSQLite
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	if got := (LogConfig{Level: "DEBUG"}).SlogLevel(); got != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", got)
	}
	if got := (LogConfig{Level: "bogus"}).SlogLevel(); got != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", got)
	}
}
