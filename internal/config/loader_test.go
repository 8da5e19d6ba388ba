package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"CAMPUS_API_URL",
			"CAMPUS_SESSION_TTL",
			"CAMPUS_HTTP_TIMEOUT",
			"CAMPUS_STORE_PATH",
			"CAMPUS_APP_VERSION",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		t.Setenv("CAMPUS_API_KEY", "api-key")
		t.Setenv("CAMPUS_STORE_SECRET", "store-secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.APIURL != "https://hiplan.thi.de/webservice/production2/index.php" {
			t.Fatalf("unexpected default API URL: %q", cfg.APIURL)
		}
		if cfg.SessionTTL != 3*time.Hour {
			t.Fatalf("expected default session TTL 3h, got %s", cfg.SessionTTL)
		}
		if cfg.HTTPTimeout != 30*time.Second {
			t.Fatalf("expected default HTTP timeout 30s, got %s", cfg.HTTPTimeout)
		}
		if cfg.APIKey != "api-key" {
			t.Fatalf("expected API key to be %q, got %q", "api-key", cfg.APIKey)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		for _, key := range []string{
			"CAMPUS_API_KEY",
			"CAMPUS_STORE_SECRET",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: CAMPUS_API_KEY, CAMPUS_STORE_SECRET"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration fields", func(t *testing.T) {
		t.Setenv("CAMPUS_API_KEY", "api-key")
		t.Setenv("CAMPUS_STORE_SECRET", "store-secret")
		t.Setenv("CAMPUS_SESSION_TTL", "90m")
		t.Setenv("CAMPUS_HTTP_TIMEOUT", "10s")
		t.Setenv("CAMPUS_STORE_PATH", "/tmp/campus.db")
		t.Setenv("CAMPUS_APP_VERSION", "1.2.3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.SessionTTL != 90*time.Minute {
			t.Fatalf("expected session TTL 90m, got %s", cfg.SessionTTL)
		}
		if cfg.HTTPTimeout != 10*time.Second {
			t.Fatalf("expected HTTP timeout 10s, got %s", cfg.HTTPTimeout)
		}
		if cfg.StorePath != "/tmp/campus.db" {
			t.Fatalf("unexpected store path: %q", cfg.StorePath)
		}
		if cfg.AppVersion != "1.2.3" {
			t.Fatalf("unexpected app version: %q", cfg.AppVersion)
		}
	})

	t.Run("rejects malformed durations", func(t *testing.T) {
		t.Setenv("CAMPUS_API_KEY", "api-key")
		t.Setenv("CAMPUS_STORE_SECRET", "store-secret")
		t.Setenv("CAMPUS_SESSION_TTL", "three hours")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed CAMPUS_SESSION_TTL")
		}
		expected := "environment variables have invalid values: CAMPUS_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
