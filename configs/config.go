package config

import (
	"os"
	"strings"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	Port                string
	Storage             string
	PostgresURI         string
	RedisURI            string
	FrontendURL         string
	MediaBackend        string
	UploadDir           string
	R2                  R2
	SecretKey           string
	CookieName          string
	AdminEmails         []string
	OrphanAuditSchedule string
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	MediaBackendDisk = "disk"
	MediaBackendR2   = "r2"
)

func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Storage:      getEnv("STORAGE", StoragePostgres),
		PostgresURI:  getEnv("POSTGRES_URI", ""),
		RedisURI:     getEnv("REDIS_URI", ""),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		MediaBackend: getEnv("MEDIA_BACKEND", MediaBackendDisk),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:           getEnv("SECRET_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", ""),
		AdminEmails:         splitList(getEnv("ADMIN_EMAILS", "")),
		OrphanAuditSchedule: getEnv("ORPHAN_AUDIT_SCHEDULE", "@every 1h"),
	}
}

// IsAdminEmail reports whether registering with email grants the admin flag.
func (c Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
