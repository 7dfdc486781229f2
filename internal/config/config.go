package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	HTTPPort         string
	DBPath           string
	RedisAddr        string
	RateLimitBackend string
	RateLimitPerMin  int
	JWTIssuer        string
	JWTSigningKey    string
	AdminTokenTTL    time.Duration
	BackupDir        string
	BackupKeep       int
	BackupInterval   time.Duration
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPPort:         getEnv("HTTP_PORT", "5000"),
		DBPath:           getEnv("DB_PATH", "./attendance.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 60),
		JWTIssuer:        getEnv("JWT_ISSUER", "timeclock"),
		JWTSigningKey:    getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AdminTokenTTL:    durationEnv("ADMIN_TOKEN_TTL", 30*time.Minute),
		BackupDir:        getEnv("BACKUP_DIR", "./backups"),
		BackupKeep:       intEnv("BACKUP_KEEP", 10),
		BackupInterval:   durationEnv("BACKUP_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
