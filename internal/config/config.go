package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Env           string
	Port          string
	Origin        string // CORS
	SessionSecret string
	UsersFile     string

	// Remote ticketing API
	JiraBaseURL  string
	AccountEmail string
	APIToken     string
	ProjectKey   string
	IssueType    string
	NameFieldID  string // custom field holding the reporter display name
	EmailFieldID string // custom field holding the reporter email
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	return Config{
		Env:           env("APP_ENV", "dev"),
		Port:          env("API_PORT", "8080"),
		Origin:        env("CORS_ORIGIN", "http://localhost:3000"),
		SessionSecret: env("SESSION_SECRET", "dev-secret-change-me"),
		UsersFile:     env("USERS_FILE", "users.json"),
		JiraBaseURL:   env("JIRA_BASE_URL", ""),
		AccountEmail:  env("JIRA_ACCOUNT_EMAIL", ""),
		APIToken:      env("JIRA_API_TOKEN", ""),
		ProjectKey:    env("JIRA_PROJECT_KEY", ""),
		IssueType:     env("JIRA_ISSUE_TYPE", "Bug"),
		NameFieldID:   env("JIRA_NAME_FIELD_ID", "customfield_10067"),
		EmailFieldID:  env("JIRA_EMAIL_FIELD_ID", "customfield_10066"),
	}
}

// Validate reports every missing ticketing setting at once so a broken
// deployment is fixed in one restart instead of one variable at a time.
func (c Config) Validate() error {
	var missing []string
	if c.JiraBaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if c.AccountEmail == "" {
		missing = append(missing, "JIRA_ACCOUNT_EMAIL")
	}
	if c.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if c.ProjectKey == "" {
		missing = append(missing, "JIRA_PROJECT_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
