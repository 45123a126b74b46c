package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/rentalmngr/internal/document"
)

type Config struct {
	ListenAddr       string
	DBPath           string
	PhotoPath        string
	LogLevel         string
	LogFile          string
	LogFormat        string
	DocumentProfile  string
	ReminderInterval time.Duration
	AlertConcurrency int
}

func Load() *Config {
	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "/data/rentalmngr.db"),
		PhotoPath:        getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		DocumentProfile:  getEnv("DOCUMENT_PROFILE", ""),
		ReminderInterval: getDuration("REMINDER_INTERVAL", time.Hour),
		AlertConcurrency: getInt("ALERT_CONCURRENCY", 4),
	}
}

// LoadProfile reads a YAML document profile. Keys missing from the file keep
// their default values. An empty path returns the default profile.
func LoadProfile(path string) (document.Profile, error) {
	profile := document.DefaultProfile()
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read document profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse document profile %s: %w", path, err)
	}
	return profile, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
