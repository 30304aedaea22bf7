// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

// envVars lists every variable Load reads.
var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "STORE_DRIVER",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"MONGO_URI", "MONGO_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"DEEP_LINK_BASE_URL", "NOTIFICATION_QUEUE_KEY",
	"TREE_CACHE_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

// clearEnv sets every variable to empty, which envOrDefault treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("StoreDriver", cfg.StoreDriver, DriverPostgres)
	check("DBUser", cfg.DBUser, "nikshay")
	check("DBName", cfg.DBName, "nikshay")
	check("MongoURI", cfg.MongoURI, "mongodb://localhost:27017")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("QueueKey", cfg.Notification.QueueKey, "notifications:queue")

	if cfg.TreeCacheTTL != 10*time.Minute {
		t.Errorf("TreeCacheTTL = %v, want 10m", cfg.TreeCacheTTL)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %v/%d, want 20/40", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_DB", "setu")
	t.Setenv("DEEP_LINK_BASE_URL", "https://example.test/app")
	t.Setenv("TREE_CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != DriverMongo || cfg.MongoDB != "setu" {
		t.Errorf("mongo settings: got %q/%q", cfg.StoreDriver, cfg.MongoDB)
	}
	if cfg.Notification.DeepLinkBaseURL != "https://example.test/app" {
		t.Errorf("deep link base: got %q", cfg.Notification.DeepLinkBaseURL)
	}
	if cfg.TreeCacheTTL != 30*time.Second {
		t.Errorf("TreeCacheTTL = %v, want 30s", cfg.TreeCacheTTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantSub string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"bad ttl", map[string]string{"TREE_CACHE_TTL": "soon"}, "TREE_CACHE_TTL"},
		{"bad rps", map[string]string{"RATE_LIMIT_RPS": "fast"}, "RATE_LIMIT_RPS"},
		{"bad burst", map[string]string{"RATE_LIMIT_BURST": "1.5"}, "RATE_LIMIT_BURST"},
		{"default password in production", map[string]string{"APP_ENV": "production"}, "POSTGRES_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected an error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_ProductionMongoSkipsPostgresCheck(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "mongo")

	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestDSNAndAddr(t *testing.T) {
	cfg := &Config{
		Host: "127.0.0.1", Port: "9000",
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "n",
	}
	if got, want := cfg.DSN(), "postgres://u:p@db:5433/n?sslmode=disable"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	if got, want := cfg.Addr(), "127.0.0.1:9000"; got != want {
		t.Errorf("Addr = %q, want %q", got, want)
	}
}
