package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lab-cost-estimator/db"
)

// Config holds everything read from the environment at startup
type Config struct {
	Port                 string
	BaseURL              string
	Env                  string
	LogLevel             string
	Store                db.Config
	WatchDataFiles       bool
	ChromePath           string
	GoogleCredentials    string
	DriveReportsFolderID string
	CurrencySymbol       string
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (Config, error) {
	port := strings.TrimPrefix(getEnv("PORT", "8080"), ":")
	dataDir := getEnv("DATA_DIR", "data")

	pathStyle, err := getEnvBool("S3_PATH_STYLE", false)
	if err != nil {
		return Config{}, err
	}
	watch, err := getEnvBool("WATCH_DATA_FILES", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     port,
		BaseURL:  getEnv("BASE_URL", "http://localhost:"+port),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store: db.Config{
			Backend:    strings.ToLower(getEnv("DATA_BACKEND", db.BackendFile)),
			DataDir:    dataDir,
			SQLitePath: getEnv("SQLITE_PATH", filepath.Join(dataDir, "labcost.db")),
			Postgres: db.PostgresConfig{
				URL:      os.Getenv("DATABASE_URL"),
				Host:     os.Getenv("DB_HOST"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     os.Getenv("DB_USER"),
				Password: os.Getenv("DB_PASSWORD"),
				Name:     os.Getenv("DB_NAME"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
			S3: db.S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				Prefix:          getEnv("S3_PREFIX", "labcost/"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
				PathStyle:       pathStyle,
			},
		},
		WatchDataFiles:       watch,
		ChromePath:           os.Getenv("CHROME_PATH"),
		GoogleCredentials:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveReportsFolderID: os.Getenv("DRIVE_REPORTS_FOLDER_ID"),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "₹"),
	}

	switch cfg.Store.Backend {
	case db.BackendFile, db.BackendMemory, db.BackendSQLite, db.BackendPostgres, db.BackendS3:
	default:
		return Config{}, fmt.Errorf("unknown DATA_BACKEND %q (valid: file, memory, sqlite, postgres, s3)", cfg.Store.Backend)
	}
	return cfg, nil
}

// Addr is the listen address. 0.0.0.0 accepts connections from all interfaces (Docker).
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
