package config

import "strings"

// GoogleConfig configures Google sign-in.
type GoogleConfig struct {
	// ClientID is the OAuth client the ID tokens must be issued for.
	// Google sign-in is disabled when it is empty.
	ClientID    string
	AdminEmails []string
}

// NewGoogleConfig reads GOOGLE_CLIENT_ID and ADMIN_EMAILS (comma separated).
func NewGoogleConfig() *GoogleConfig {
	admins := envList("ADMIN_EMAILS")
	for i, email := range admins {
		admins[i] = strings.ToLower(email)
	}
	return &GoogleConfig{
		ClientID:    envOr("GOOGLE_CLIENT_ID", ""),
		AdminEmails: admins,
	}
}

// Enabled reports whether Google sign-in is configured.
func (c *GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS. Comparison
// ignores case.
func (c *GoogleConfig) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
