package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	// Upstream REST Countries API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Redis cache
	RedisAddr string
	RedisDB   int
	CacheTTL  time.Duration

	// Local redis-server lifecycle
	ManageRedis     bool // start and stop a redis-server child process
	RedisServerPath string
	RedisStartWait  time.Duration

	LogLevel string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	host := strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := getEnvAsInt("REDIS_PORT", 6379)

	return &Config{
		APIBaseURL:      getEnv("COUNTRY_API_BASE_URL", "https://restcountries.com/v3.1/name"),
		HTTPTimeout:     time.Duration(getEnvAsInt("HTTP_TIMEOUT_MS", 10000)) * time.Millisecond,
		RedisAddr:       host + ":" + strconv.Itoa(port),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		CacheTTL:        time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		ManageRedis:     getEnvAsBool("MANAGE_REDIS", true),
		RedisServerPath: getEnv("REDIS_SERVER_PATH", "redis-server"),
		RedisStartWait:  time.Duration(getEnvAsInt("REDIS_START_WAIT_MS", 3000)) * time.Millisecond,
		LogLevel:        strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}
}

func getEnv(name, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(name)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves an environment variable as an integer with a default fallback.
func getEnvAsInt(name string, defaultVal int) int {
	if valStr := os.Getenv(name); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			return val
		}
	}
	return defaultVal
}

// getEnvAsBool parses a boolean environment variable with a default.
func getEnvAsBool(name string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultVal
	}
}
