// Package google holds thin gateways for the Sheets and Drive REST
// APIs, authenticated with a service account key file. The clients are
// constructed once at boot and shared across requests.
package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	googleauth "golang.org/x/oauth2/google"
)

// OAuth scopes used by the gateways.
const (
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"
	ScopeDrive        = "https://www.googleapis.com/auth/drive"
)

// NewServiceClient builds an authenticated HTTP client from a service
// account key file (credentials.json).
func NewServiceClient(ctx context.Context, credentialsFile string, scopes ...string) (*http.Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := googleauth.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return conf.Client(ctx), nil
}
