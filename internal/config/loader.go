package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the campus
// backend client.
type Config struct {
	APIURL      string
	APIKey      string
	SessionTTL  time.Duration
	HTTPTimeout time.Duration
	StorePath   string
	StoreSecret string
	AppVersion  string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields while validating required
// values and reporting every missing or malformed entry at once.
func Load() (Config, error) {
	cfg := Config{
		APIURL:      "https://hiplan.thi.de/webservice/production2/index.php",
		SessionTTL:  3 * time.Hour,
		HTTPTimeout: 30 * time.Second,
		StorePath:   "campus.db",
		AppVersion:  "0.0.0",
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if url := strings.TrimSpace(os.Getenv("CAMPUS_API_URL")); url != "" {
		cfg.APIURL = url
	}

	if key := strings.TrimSpace(os.Getenv("CAMPUS_API_KEY")); key == "" {
		missing = append(missing, "CAMPUS_API_KEY")
	} else {
		cfg.APIKey = key
	}

	if ttlValue := strings.TrimSpace(os.Getenv("CAMPUS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CAMPUS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("CAMPUS_HTTP_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "CAMPUS_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if path := strings.TrimSpace(os.Getenv("CAMPUS_STORE_PATH")); path != "" {
		cfg.StorePath = path
	}

	if secret := strings.TrimSpace(os.Getenv("CAMPUS_STORE_SECRET")); secret == "" {
		missing = append(missing, "CAMPUS_STORE_SECRET")
	} else {
		cfg.StoreSecret = secret
	}

	if version := strings.TrimSpace(os.Getenv("CAMPUS_APP_VERSION")); version != "" {
		cfg.AppVersion = version
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
