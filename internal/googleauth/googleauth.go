// Package googleauth verifies Google Sign-In ID tokens.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// ErrInvalidToken is returned when an ID token fails verification or lacks
// the claims needed to identify a user.
var ErrInvalidToken = errors.New("invalid google id token")

// Identity is the verified user information carried by an ID token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier checks an ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

type payloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// IDTokenVerifier validates tokens against Google's public keys for one
// OAuth client ID.
type IDTokenVerifier struct {
	clientID  string
	validator payloadValidator
}

// NewIDTokenVerifier builds a verifier for tokens issued to clientID.
func NewIDTokenVerifier(ctx context.Context, clientID string) (*IDTokenVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id is empty")
	}
	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return &IDTokenVerifier{clientID: clientID, validator: v}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: empty credential", ErrInvalidToken)
	}
	payload, err := v.validator.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*Identity, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidToken)
	}
	id := &Identity{
		Subject:       p.Subject,
		Email:         strings.ToLower(strings.TrimSpace(claimString(p.Claims, "email"))),
		EmailVerified: claimBool(p.Claims, "email_verified"),
		Name:          strings.TrimSpace(claimString(p.Claims, "name")),
		Picture:       claimString(p.Claims, "picture"),
	}
	if id.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	if id.Name == "" {
		id.Name, _, _ = strings.Cut(id.Email, "@")
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// email_verified arrives as a bool, but some issuers send the string "true".
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
