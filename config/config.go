package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"netflix-dashboard/models"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource   string
	CSVInputPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	HTTPAddr     string
	APIRateLimit int
	YearFrom     int
	YearTo       int
	TopK         int
	LogLevel     string

	SnapshotDir    string
	SnapshotRanges []models.YearRange
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	ChromeBin      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		DataSource:   strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		CSVInputPath: getEnv("CSV_INPUT_PATH", "./netflix_titles.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "netflix"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "titles"),

		HTTPAddr:     getEnvAllowEmpty("HTTP_ADDR", ":8501"),
		APIRateLimit: getEnvInt("API_RATE_LIMIT", 120),
		YearFrom:     getEnvInt("YEAR_FROM", 2015),
		YearTo:       getEnvInt("YEAR_TO", 2021),
		TopK:         getEnvInt("TOP_K", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		SnapshotDir:    getEnv("SNAPSHOT_DIR", ""),
		SnapshotRanges: getEnvRanges("SNAPSHOT_RANGES", []models.YearRange{{From: 2015, To: 2021}}),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// DefaultRange is the year range selected when the dashboard first opens.
func (c *Config) DefaultRange() models.YearRange {
	return models.YearRange{From: c.YearFrom, To: c.YearTo}.Normalize()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvAllowEmpty returns fallback only when key is unset, so an explicit
// empty value can switch a feature off.
func getEnvAllowEmpty(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvRanges(key string, fallback []models.YearRange) []models.YearRange {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	ranges, err := ParseRanges(val)
	if err != nil {
		log.Printf("[config] Ignoring %s: %v", key, err)
		return fallback
	}
	return ranges
}

// ParseRanges parses a comma-separated list such as "2015-2021,2019" into
// year ranges. A single year stands for a one-year range.
func ParseRanges(s string) ([]models.YearRange, error) {
	var ranges []models.YearRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, found := strings.Cut(part, "-")
		lo, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", part, err)
		}
		hi := lo
		if found {
			if hi, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
				return nil, fmt.Errorf("range %q: %w", part, err)
			}
		}
		ranges = append(ranges, models.YearRange{From: lo, To: hi}.Normalize())
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no ranges in %q", s)
	}
	return ranges, nil
}
