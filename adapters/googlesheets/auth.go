package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	logger "log"
	"os"
	"strings"

	sheetdash "github.com/ideamans/go-sheetdash"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var log = logger.New(logger.Writer(), "[SHEETS] ", logger.LstdFlags|logger.Lmsgprefix)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// CredentialSources lists where service account credentials may be found
type CredentialSources struct {
	File   string // local JSON key file, consulted first
	EnvVar string // environment variable holding the JSON key document
}

// ResolveCredentials loads the service account key from the first usable source.
// Unreadable or malformed sources are logged and skipped; nil means no credentials.
func ResolveCredentials(src CredentialSources) *ServiceAccountKey {
	if src.File != "" {
		data, err := os.ReadFile(src.File)
		switch {
		case err == nil:
			key, err := ParseServiceAccountJSON(data)
			if err == nil {
				log.Printf("using credentials from %s", src.File)
				return key
			}
			log.Printf("ignoring credentials file %s: %v", src.File, err)

		case !errors.Is(err, fs.ErrNotExist):
			log.Printf("unable to read credentials file %s: %v", src.File, err)
		}
	}

	if src.EnvVar != "" {
		if blob := strings.TrimSpace(os.Getenv(src.EnvVar)); blob != "" {
			key, err := ParseServiceAccountJSON([]byte(blob))
			if err == nil {
				log.Printf("using credentials from $%s", src.EnvVar)
				return key
			}
			log.Printf("ignoring $%s: %v", src.EnvVar, err)
		}
	}

	return nil
}

// ParseServiceAccountJSON parses a service account JSON document.
// Escaped "\n" sequences in the private key are replaced with real newlines.
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing required fields in service account key")
	}

	key.PrivateKey = strings.ReplaceAll(key.PrivateKey, `\n`, "\n")

	return &key, nil
}

// TokenSource creates a read-only Sheets token source for the key
func TokenSource(ctx context.Context, key *ServiceAccountKey) oauth2.TokenSource {
	tokenURL := key.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}

	jwtConfig := &jwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		TokenURL:     tokenURL,
	}

	return jwtConfig.TokenSource(ctx)
}

// NewWithServiceAccountKey creates a Source authenticated with the given key
func NewWithServiceAccountKey(ctx context.Context, config Config, key *ServiceAccountKey) (*Source, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: no service account key provided", sheetdash.ErrNotConfigured)
	}

	return NewSource(ctx, config, option.WithTokenSource(TokenSource(ctx, key)))
}
