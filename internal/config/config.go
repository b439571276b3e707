package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
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
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the artifact storage driver. Driver is "minio" or
// "local"; LocalRoot/LocalBaseURL apply to the local filesystem driver only.
type StorageConfig struct {
	Driver       string
	LocalRoot    string
	LocalBaseURL string
}

// ConverterConfig configures the editable-to-PDF conversion collaborator.
// Driver "http" posts to Endpoint; "chrome" prints via headless Chromium.
type ConverterConfig struct {
	Driver       string
	Endpoint     string
	TimeoutSec   int
	ChromiumPath string
}

// StampConfig configures the stamping engine.
type StampConfig struct {
	FontPath string
	// Secret keys the HMAC integrity token embedded in the QR payload.
	Secret string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Storage   StorageConfig
	Converter ConverterConfig
	Stamp     StampConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
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
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", "minio"),
			LocalRoot:    getEnv("STORAGE_LOCAL_ROOT", "./data/artifacts"),
			LocalBaseURL: getEnv("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/artifacts"),
		},
		Converter: ConverterConfig{
			Driver:       getEnv("CONVERTER_DRIVER", "http"),
			Endpoint:     getEnv("CONVERTER_ENDPOINT", ""),
			TimeoutSec:   getEnvInt("CONVERTER_TIMEOUT_SEC", 30),
			ChromiumPath: getEnv("CONVERTER_CHROMIUM_PATH", ""),
		},
		Stamp: StampConfig{
			FontPath: getEnv("STAMP_FONT_PATH", "./assets/fonts/DejaVuSans.ttf"),
			Secret:   getEnv("STAMP_SECRET", ""),
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
