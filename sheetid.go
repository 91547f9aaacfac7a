package sheetdash

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSheetID is used when no other source names a spreadsheet
const DefaultSheetID = "1XTkvkPZ5pNSJsXIPF5HwPDxy2vIVY5uFmvhS_hCJl9c"

// SheetIDVar is the variable name read from the env file and the process environment
const SheetIDVar = "SHEET_ID"

var spreadsheetURL = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)(?:[/?#].*)?$`)

// Origin identifies the tier a sheet id was resolved from
type Origin string

const (
	OriginSession  Origin = "session"
	OriginOverride Origin = "override"
	OriginEnvFile  Origin = "env-file"
	OriginEnv      Origin = "env"
	OriginFallback Origin = "fallback"
)

// Override is the persisted form of the override store
type Override struct {
	SheetID   string `json:"SHEET_ID"`
	UpdatedAt string `json:"updatedAt"`
}

// OverrideStore persists the sheet id chosen at runtime.
// When the file cannot be written the value is kept in memory for the life of the process.
type OverrideStore struct {
	path    string
	mu      sync.RWMutex
	session string
}

// NewOverrideStore creates a store backed by the JSON file at path
func NewOverrideStore(path string) *OverrideStore {
	return &OverrideStore{path: path}
}

// Path returns the backing file path
func (s *OverrideStore) Path() string {
	return s.path
}

// Session returns the in-memory value set by a Save that could not be persisted
func (s *OverrideStore) Session() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session
}

// Read loads the override file. Every call goes to disk.
func (s *OverrideStore) Read() (*Override, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var o Override
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse override file: %w", err)
	}

	return &o, nil
}

// Save writes the whole override record. On failure the sheet id is still
// applied to the session and the write error is returned.
func (s *OverrideStore) Save(sheetID string, now time.Time) error {
	o := Override{
		SheetID:   sheetID,
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode override: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.session = sheetID
		return fmt.Errorf("failed to write override file: %w", err)
	}

	s.session = ""
	return nil
}

// SheetIDResolver determines which spreadsheet to read.
// It is evaluated on every call; nothing is cached.
type SheetIDResolver struct {
	Store    *OverrideStore
	EnvFile  string
	Getenv   func(string) string
	Fallback string
}

// NewSheetIDResolver creates a resolver reading the process environment
func NewSheetIDResolver(store *OverrideStore, envFile string) *SheetIDResolver {
	return &SheetIDResolver{
		Store:    store,
		EnvFile:  envFile,
		Getenv:   os.Getenv,
		Fallback: DefaultSheetID,
	}
}

// Resolve returns the spreadsheet id to read; it is never empty
func (r *SheetIDResolver) Resolve() string {
	id, _ := r.Lookup()
	return id
}

// Lookup returns the spreadsheet id and the tier that supplied it
func (r *SheetIDResolver) Lookup() (string, Origin) {
	if r.Store != nil {
		if id := strings.TrimSpace(r.Store.Session()); id != "" {
			return id, OriginSession
		}
		if o, err := r.Store.Read(); err == nil {
			if id := strings.TrimSpace(o.SheetID); id != "" {
				return id, OriginOverride
			}
		}
	}

	if r.EnvFile != "" {
		if env, err := godotenv.Read(r.EnvFile); err == nil {
			if id := strings.TrimSpace(env[SheetIDVar]); id != "" {
				return id, OriginEnvFile
			}
		}
	}

	if r.Getenv != nil {
		if id := strings.TrimSpace(r.Getenv(SheetIDVar)); id != "" {
			return id, OriginEnv
		}
	}

	if r.Fallback != "" {
		return r.Fallback, OriginFallback
	}
	return DefaultSheetID, OriginFallback
}

// ParseSpreadsheetID accepts either a bare spreadsheet id or a Google Sheets URL
// and returns the id. The result is empty for blank input.
func ParseSpreadsheetID(input string) string {
	input = strings.TrimSpace(input)
	if match := spreadsheetURL.FindStringSubmatch(input); len(match) == 2 {
		return match[1]
	}
	return input
}
