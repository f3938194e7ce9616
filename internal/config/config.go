package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings for the self-hosted document backend.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	// StatementTimeout bounds every query the session runs; zero leaves the server default.
	StatementTimeout time.Duration
}

// FirebaseConfig identifies the managed project backing the document store and blob store.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	StorageBucket   string
}

// DocStoreConfig selects the document store backend: "firestore" or "postgres".
type DocStoreConfig struct {
	Backend string
}

// BlobConfig holds blob store settings. Backend is "gcs" (Firebase Storage) or "s3"
// (any S3-compatible endpoint such as MinIO).
type BlobConfig struct {
	Backend        string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	DownloadHost   string
	MaxUploadBytes int64
}

// ProjectionConfig tunes how stored documents are turned into entities.
type ProjectionConfig struct {
	// DisplayOffset is the fixed UTC offset the client UI renders schedule dates in.
	DisplayOffset time.Duration
	// BatchResolve resolves staff references once per listing instead of once per record.
	BatchResolve bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Timezone   string
	DocStore   DocStoreConfig
	Firebase   FirebaseConfig
	Database   DatabaseConfig
	Blob       BlobConfig
	Projection ProjectionConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TZ_NAME", "UTC"),
		DocStore: DocStoreConfig{
			Backend: getEnv("DOCSTORE_BACKEND", "firestore"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			StatementTimeout:   getEnvDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
		},
		Blob: BlobConfig{
			Backend:        getEnv("BLOB_BACKEND", "gcs"),
			Endpoint:       getEnv("S3_ENDPOINT", ""),
			AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			SecretKey:      getEnv("S3_SECRET_KEY", ""),
			Bucket:         getEnv("S3_BUCKET", ""),
			UseSSL:         getEnvBool("S3_USE_SSL", false),
			DownloadHost:   getEnv("BLOB_DOWNLOAD_HOST", "firebasestorage.googleapis.com"),
			MaxUploadBytes: int64(getEnvInt("BLOB_MAX_UPLOAD_BYTES", 10*1024*1024)),
		},
		Projection: ProjectionConfig{
			DisplayOffset: getEnvDuration("DISPLAY_OFFSET", 7*time.Hour),
			BatchResolve:  getEnvBool("RESOLVER_BATCH", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration syntax ("7h", "-30m"); "0" disables the value.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
