package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject    string
	FirebaseApiKey     string
	ServiceAccountJSON string
	ServiceAccountPath string
	StorageBucket      string

	// SigningSecret keys the HMAC stamped into issued certificates.
	SigningSecret string

	// VerificationBaseURL is the public front end that resolves a
	// verification code; QR codes embed <base>?code=<code>.
	VerificationBaseURL string

	BackupPrefix       string
	AuditRetentionDays int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:     getEnv("FIREBASE_API_KEY", ""),
		ServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),

		SigningSecret:       getEnv("SIGNING_SECRET", "change-me-in-production"),
		VerificationBaseURL: getEnv("VERIFICATION_BASE_URL", "https://unicert.example.edu/verify"),

		BackupPrefix:       getEnv("BACKUP_PREFIX", "backups"),
		AuditRetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", 365),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
