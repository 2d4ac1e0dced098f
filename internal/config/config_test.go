package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StoreDriverParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults to memory", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreDriver != StoreDriverMemory {
			t.Fatalf("unexpected default store driver: %q", cfg.StoreDriver)
		}
	})

	t.Run("accepts postgres case-insensitively", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", " Postgres ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreDriver != StoreDriverPostgres {
			t.Fatalf("unexpected store driver: %q", cfg.StoreDriver)
		}
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STORE_DRIVER")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=https://token@api.uptrace.dev/123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/123" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "rating-engine-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "rating-engine-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_PurgeJobConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PURGE_RETENTION_DAYS", "")
		t.Setenv("PURGE_WORKERS", "")
		t.Setenv("JOB_SCHEDULE_INTERVAL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PurgeRetentionDays != 1461 {
			t.Fatalf("unexpected default retention days: %d", cfg.PurgeRetentionDays)
		}
		if cfg.PurgeWorkers != 4 {
			t.Fatalf("unexpected default purge workers: %d", cfg.PurgeWorkers)
		}
		if cfg.JobScheduleInterval != 24*time.Hour {
			t.Fatalf("unexpected default job schedule interval: %s", cfg.JobScheduleInterval)
		}
	})

	t.Run("rejects zero retention", func(t *testing.T) {
		t.Setenv("PURGE_RETENTION_DAYS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for PURGE_RETENTION_DAYS=0")
		}
	})
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.QStashEnabled {
			t.Fatalf("expected QStashEnabled=false by default")
		}
	})

	t.Run("enabled requires token and target and internal token", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		t.Setenv("INTERNAL_JOB_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when QSTASH_ENABLED=true without required env")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://rating-engine.fly.dev")
		t.Setenv("INTERNAL_JOB_TOKEN", "internal-job-token")
		t.Setenv("QSTASH_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.QStashEnabled {
			t.Fatalf("expected QStashEnabled=true")
		}
		if cfg.QStashRetries != 2 {
			t.Fatalf("unexpected qstash retries: %d", cfg.QStashRetries)
		}
		if cfg.InternalJobToken != "internal-job-token" {
			t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
		}
		if !cfg.QStashCircuitEnabled {
			t.Fatalf("expected circuit breaker enabled by default")
		}
		if cfg.QStashCircuitFailureCount != 5 {
			t.Fatalf("unexpected circuit failure count: %d", cfg.QStashCircuitFailureCount)
		}
	})
}
