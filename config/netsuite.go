package config

import (
	"os"
	"strings"
)

// NetSuiteConfig carries the restlet endpoint plus the OAuth1 token-based
// authentication credentials for it.
type NetSuiteConfig struct {
	BaseURL        string
	ScriptID       string
	DeployID       string
	ConsumerKey    string
	ConsumerSecret string
	TokenID        string
	TokenSecret    string
	AccountID      string
}

// GetNetSuiteConfig reads the NetSuite restlet settings from the environment.
// Credentials stay in env only; they are never logged or persisted.
func GetNetSuiteConfig() NetSuiteConfig {
	baseURL := strings.TrimSpace(os.Getenv("NETSUITE_BASE_URL"))
	scriptID := strings.TrimSpace(os.Getenv("NETSUITE_SCRIPT_ID"))
	if scriptID == "" {
		scriptID = "1758"
	}
	deployID := strings.TrimSpace(os.Getenv("NETSUITE_DEPLOY_ID"))
	if deployID == "" {
		deployID = "1"
	}

	return NetSuiteConfig{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		ScriptID:       scriptID,
		DeployID:       deployID,
		ConsumerKey:    strings.TrimSpace(os.Getenv("NETSUITE_CONSUMER_KEY")),
		ConsumerSecret: strings.TrimSpace(os.Getenv("NETSUITE_CONSUMER_SECRET")),
		TokenID:        strings.TrimSpace(os.Getenv("NETSUITE_TOKEN_ID")),
		TokenSecret:    strings.TrimSpace(os.Getenv("NETSUITE_TOKEN_SECRET")),
		AccountID:      strings.TrimSpace(os.Getenv("NETSUITE_ACCOUNT_ID")),
	}
}
