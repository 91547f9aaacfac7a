package sheetdash_test

import (
	"errors"
	"testing"

	sheetdash "github.com/ideamans/go-sheetdash"
)

var configVars = []string{
	"PORT", "STATIC_DIR", "OVERRIDE_FILE", "ENV_FILE", "CREDENTIALS_FILE", "CREDENTIALS_ENV",
	"TARGET_SHEET", "SOURCE", "XLSX_DIR",
	"BASE_TOTAL", "BASE_HOAN_THANH", "BASE_DANG_THUC_HIEN", "BASE_SAN_SANG_CHECK", "BASE_CHUA_BAT_DAU", "BASE_FEEDBACK",
}

// clearConfigEnv blanks every variable LoadConfig reads; blank counts as unset
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range configVars {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	config, err := sheetdash.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := sheetdash.Config{
		Port:            "8080",
		StaticDir:       "public",
		OverrideFile:    "localstorage.json",
		EnvFile:         ".env",
		CredentialsFile: "credentials.json",
		CredentialsEnv:  "GOOGLE_CREDENTIALS",
		TargetSheet:     sheetdash.DefaultTargetSheet,
		Source:          sheetdash.SourceSheets,
		XLSXDir:         "data",
	}
	if *config != want {
		t.Errorf("LoadConfig() = %+v, want %+v", *config, want)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("TARGET_SHEET", "Roadmap")
	t.Setenv("SOURCE", "XLSX")
	t.Setenv("XLSX_DIR", "/srv/workbooks")

	config, err := sheetdash.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "3000" {
		t.Errorf("Port = %q, want 3000", config.Port)
	}
	if config.TargetSheet != "Roadmap" {
		t.Errorf("TargetSheet = %q, want Roadmap", config.TargetSheet)
	}
	if config.Source != sheetdash.SourceXLSX {
		t.Errorf("Source = %q, want %q", config.Source, sheetdash.SourceXLSX)
	}
	if config.XLSXDir != "/srv/workbooks" {
		t.Errorf("XLSXDir = %q, want /srv/workbooks", config.XLSXDir)
	}
}

func TestLoadConfig_InvalidSource(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SOURCE", "csv")

	if _, err := sheetdash.LoadConfig(); !errors.Is(err, sheetdash.ErrInvalidSource) {
		t.Errorf("LoadConfig() error = %v, want %v", err, sheetdash.ErrInvalidSource)
	}
}

func TestLoadConfig_Baselines(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want *sheetdash.Baselines
	}{
		{
			name: "unset",
			env:  map[string]string{},
			want: nil,
		},
		{
			name: "all set",
			env: map[string]string{
				"BASE_TOTAL":          "120",
				"BASE_HOAN_THANH":     "80",
				"BASE_DANG_THUC_HIEN": "25",
				"BASE_SAN_SANG_CHECK": "5",
				"BASE_CHUA_BAT_DAU":   "7",
				"BASE_FEEDBACK":       "3",
			},
			want: &sheetdash.Baselines{Total: 120, HoanThanh: 80, DangThucHien: 25, SanSangCheck: 5, ChuaBatDau: 7, Feedback: 3},
		},
		{
			name: "partial and unparsable",
			env: map[string]string{
				"BASE_TOTAL":      " 42 ",
				"BASE_HOAN_THANH": "12abc",
				"BASE_FEEDBACK":   "many",
			},
			want: &sheetdash.Baselines{Total: 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := sheetdash.LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}

			switch {
			case tt.want == nil && config.Baselines != nil:
				t.Errorf("Baselines = %+v, want nil", *config.Baselines)
			case tt.want != nil && config.Baselines == nil:
				t.Errorf("Baselines = nil, want %+v", *tt.want)
			case tt.want != nil && *config.Baselines != *tt.want:
				t.Errorf("Baselines = %+v, want %+v", *config.Baselines, *tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  sheetdash.Config
		wantErr bool
	}{
		{"sheets", sheetdash.Config{Port: "8080", Source: sheetdash.SourceSheets}, false},
		{"xlsx", sheetdash.Config{Port: "8080", Source: sheetdash.SourceXLSX}, false},
		{"unknown source", sheetdash.Config{Port: "8080", Source: "csv"}, true},
		{"missing port", sheetdash.Config{Source: sheetdash.SourceSheets}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
