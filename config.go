package sheetdash

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"
)

// Baselines are fixed counters reported with every data response
type Baselines struct {
	Total        int `json:"total"`
	HoanThanh    int `json:"hoanThanh"`
	DangThucHien int `json:"dangThucHien"`
	SanSangCheck int `json:"sanSangCheck"`
	ChuaBatDau   int `json:"chuaBatDau"`
	Feedback     int `json:"feedback"`
}

var baselineVars = []string{
	"BASE_TOTAL",
	"BASE_HOAN_THANH",
	"BASE_DANG_THUC_HIEN",
	"BASE_SAN_SANG_CHECK",
	"BASE_CHUA_BAT_DAU",
	"BASE_FEEDBACK",
}

// Config represents configuration for the dashboard service
type Config struct {
	Port            string     // Listen port (default: 8080)
	StaticDir       string     // Directory served for non-API paths (default: public)
	OverrideFile    string     // Override store file (default: localstorage.json)
	EnvFile         string     // Env file consulted for SHEET_ID (default: .env)
	CredentialsFile string     // Service account key file (default: credentials.json)
	CredentialsEnv  string     // Variable holding service account JSON (default: GOOGLE_CREDENTIALS)
	TargetSheet     string     // Worksheet title to read (default: Project Timeline)
	Source          string     // sheets or xlsx (default: sheets)
	XLSXDir         string     // Directory of <sheetId>.xlsx files for the xlsx source (default: data)
	Baselines       *Baselines // nil when no BASE_* variable is set
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		StaticDir:       getEnvOrDefault("STATIC_DIR", "public"),
		OverrideFile:    getEnvOrDefault("OVERRIDE_FILE", "localstorage.json"),
		EnvFile:         getEnvOrDefault("ENV_FILE", ".env"),
		CredentialsFile: getEnvOrDefault("CREDENTIALS_FILE", "credentials.json"),
		CredentialsEnv:  getEnvOrDefault("CREDENTIALS_ENV", "GOOGLE_CREDENTIALS"),
		TargetSheet:     getEnvOrDefault("TARGET_SHEET", DefaultTargetSheet),
		Source:          strings.ToLower(getEnvOrDefault("SOURCE", SourceSheets)),
		XLSXDir:         getEnvOrDefault("XLSX_DIR", "data"),
		Baselines:       loadBaselines(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceSheets, SourceXLSX:
	default:
		return fmt.Errorf("%w: %q (expected %s or %s)", ErrInvalidSource, c.Source, SourceSheets, SourceXLSX)
	}

	if c.Port == "" {
		return fmt.Errorf("port is required")
	}

	return nil
}

func loadBaselines() *Baselines {
	configured := false
	for _, key := range baselineVars {
		if os.Getenv(key) != "" {
			configured = true
			break
		}
	}

	if !configured {
		return nil
	}

	return &Baselines{
		Total:        getEnvIntOrDefault("BASE_TOTAL", 0),
		HoanThanh:    getEnvIntOrDefault("BASE_HOAN_THANH", 0),
		DangThucHien: getEnvIntOrDefault("BASE_DANG_THUC_HIEN", 0),
		SanSangCheck: getEnvIntOrDefault("BASE_SAN_SANG_CHECK", 0),
		ChuaBatDau:   getEnvIntOrDefault("BASE_CHUA_BAT_DAU", 0),
		Feedback:     getEnvIntOrDefault("BASE_FEEDBACK", 0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
