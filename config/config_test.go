package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/esports")
	t.Setenv("STORAGE_BACKEND", "local")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != "5200" {
		t.Fatalf("expected default port 5200, got %q", cfg.Port)
	}
	if cfg.MaxScreenshotBytes != 5*1024*1024 {
		t.Fatalf("expected 5 MiB screenshot limit, got %d", cfg.MaxScreenshotBytes)
	}
	if cfg.ExternalCallTimeout != 30*time.Second {
		t.Fatalf("expected 30s call timeout, got %v", cfg.ExternalCallTimeout)
	}
	if cfg.PhoneRequired {
		t.Fatal("phone should be optional by default")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestParseTrimsOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/esports")
	t.Setenv("STORAGE_BACKEND", "LOCAL")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StorageBackend != StorageLocal {
		t.Fatalf("expected normalised backend, got %q", cfg.StorageBackend)
	}
	if cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected trimmed origin, got %q", cfg.AllowedOrigins[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"DATABASE_URL": "", "STORAGE_BACKEND": "local"},
			want: "parse env:",
		},
		{
			name: "r2 without bucket",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "STORAGE_BACKEND": "r2", "CLOUDFLARE_ACCOUNT_ID": "acc", "R2_BUCKET_NAME": ""},
			want: "R2_BUCKET_NAME",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "STORAGE_BACKEND": "ftp"},
			want: "unknown STORAGE_BACKEND",
		},
		{
			name: "body limit below screenshot limit",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "STORAGE_BACKEND": "local", "BODY_LIMIT_BYTES": "1024"},
			want: "BODY_LIMIT_BYTES",
		},
		{
			name: "grace period shorter than session ttl",
			env: map[string]string{"DATABASE_URL": "postgres://x", "STORAGE_BACKEND": "local",
				"ORPHAN_SWEEP_DELETE": "true", "ORPHAN_GRACE_PERIOD": "1h", "SESSION_TTL": "2h"},
			want: "ORPHAN_GRACE_PERIOD",
		},
		{
			name: "bad duration",
			env:  map[string]string{"DATABASE_URL": "postgres://x", "STORAGE_BACKEND": "local", "SESSION_TTL": "soon"},
			want: "parse env:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}
