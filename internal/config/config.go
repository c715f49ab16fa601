package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	OutputDir   string
	RosterGlob  string
	CuratedPath string

	DirectoryAPIBaseURL   string
	DirectoryYear         int
	DirectoryPerPage      int
	DirectoryRateLimitRPS int
	DirectoryTimeoutMs    int

	ReportTopN int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "schoolmap.db")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		RosterGlob:  getEnv("ROSTER_GLOB", "wbb_rosters_*.csv"),
		CuratedPath: getEnv("CURATED_PATH", ""),

		DirectoryAPIBaseURL:   getEnv("DIRECTORY_API_BASE_URL", "https://educationdata.urban.org/api/v1"),
		DirectoryYear:         getEnvInt("DIRECTORY_YEAR", 2022),
		DirectoryPerPage:      getEnvInt("DIRECTORY_PER_PAGE", 5000),
		DirectoryRateLimitRPS: getEnvInt("DIRECTORY_RATE_LIMIT_RPS", 4),
		DirectoryTimeoutMs:    getEnvInt("DIRECTORY_TIMEOUT_MS", 30000),

		ReportTopN: getEnvInt("REPORT_TOP_N", 20),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
