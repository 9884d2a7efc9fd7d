package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Log      LogConfig
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	PDF      PDFConfig
	Worker   WorkerConfig
	Ingest   IngestConfig
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr  string
	GRPCAddr  string
	StaticDir string
}

// StorageConfig selects and configures the document store
type StorageConfig struct {
	Backend         string
	DataRoot        string
	BucketInbox     string
	BucketProcessed string
	BucketResults   string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// PDFConfig holds PDF decoding configuration
type PDFConfig struct {
	Decoders     []string
	PdftotextBin string
	Layout       bool
}

// WorkerConfig sizes the batch processor and the queue
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// IngestConfig holds upload and inbox-watching configuration
type IngestConfig struct {
	WatchInbox     bool
	WatchDebounce  time.Duration
	MaxUploadBytes int64
}

const (
	BackendLocal = "local"
	BackendGCS   = "gcs"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists. Variables already set take precedence.
func LoadConfig() *Config {
	_ = godotenv.Load()

	defaultBackend := BackendLocal
	if os.Getenv("K_SERVICE") != "" {
		defaultBackend = BackendGCS
	}

	return &Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Server: ServerConfig{
			HTTPAddr:  getEnv("HTTP_ADDR", ":3001"),
			GRPCAddr:  getEnv("GRPC_ADDR", ""),
			StaticDir: getEnv("STATIC_DIR", ""),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", defaultBackend)),
			DataRoot:        getEnv("DATA_ROOT", "."),
			BucketInbox:     getEnv("GCS_BUCKET_OCS", "extractor-ocr-ocs"),
			BucketProcessed: getEnv("GCS_BUCKET_PROCESSED", "extractor-ocr-procesadas"),
			BucketResults:   getEnv("GCS_BUCKET_RESULTS", "extractor-ocr-results"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			DSN:             getEnv("DB_URL", "file:po-extractor.db?_pragma=busy_timeout(5000)"),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		PDF: PDFConfig{
			Decoders:     getEnvAsList("PDF_DECODERS", []string{"pdftotext", "tabula", "ledongthuc"}),
			PdftotextBin: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Layout:       getEnvAsBool("PDFTOTEXT_LAYOUT", false),
		},
		Worker: WorkerConfig{
			Workers:        getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 3*time.Minute),
		},
		Ingest: IngestConfig{
			WatchInbox:     getEnvAsBool("WATCH_INBOX", false),
			WatchDebounce:  getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 32<<20)),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.DataRoot == "" {
			return NewAppError("CONFIG_ERROR", "DATA_ROOT is required for local storage", ErrInvalidInput)
		}
	case BackendGCS:
		if c.Storage.BucketInbox == "" || c.Storage.BucketProcessed == "" || c.Storage.BucketResults == "" {
			return NewAppError("CONFIG_ERROR", "all three GCS buckets are required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "STORAGE_BACKEND must be local or gcs", ErrInvalidInput)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
		}
	case DriverNone:
	default:
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be sqlite, postgres or none", ErrInvalidInput)
	}
	if len(c.PDF.Decoders) == 0 {
		return NewAppError("CONFIG_ERROR", "PDF_DECODERS is empty", ErrInvalidInput)
	}
	if c.Worker.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "WORKERS must be positive", ErrInvalidInput)
	}
	if c.Ingest.WatchInbox && c.Storage.Backend != BackendLocal {
		return NewAppError("CONFIG_ERROR", "WATCH_INBOX requires local storage", ErrInvalidInput)
	}
	return nil
}
