// Package auth stores the bearer token guarding the HTTP API.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides any stored token.
	EnvToken = "TADA_TOKEN"
)

// ErrNoToken is returned by Require when no token is configured.
var ErrNoToken = errors.New("no token found")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional
}

// Expired reports whether the token carries an expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

// Matches compares a presented token against ti in constant time.
func (ti *TokenInfo) Matches(presented string) bool {
	p := StripBearer(strings.TrimSpace(presented))
	return subtle.ConstantTimeCompare([]byte(p), []byte(ti.Token)) == 1
}

// Dir holds credentials.json. It defaults to ~/.tada.
type Dir string

// DefaultDir returns ~/.tada.
func DefaultDir() (Dir, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return Dir(filepath.Join(home, ".tada")), nil
}

func (d Dir) credFilePath() string {
	return filepath.Join(string(d), credFileName)
}

// GetToken returns the env token, else the stored one. It returns nil
// without error when neither exists.
func (d Dir) GetToken() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: StripBearer(env), Source: "env"}, nil
	}

	b, err := os.ReadFile(d.credFilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = StripBearer(ti.Token)
	return &ti, nil
}

// Require is GetToken that fails with ErrNoToken when nothing is set.
func (d Dir) Require() (*TokenInfo, error) {
	ti, err := d.GetToken()
	if err != nil {
		return nil, err
	}
	if ti == nil || ti.Token == "" {
		return nil, ErrNoToken
	}
	return ti, nil
}

// SetToken writes token to credentials.json with owner-only permissions.
func (d Dir) SetToken(token string, expires *time.Time) error {
	token = StripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(string(d), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(d.credFilePath(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// DeleteToken removes credentials.json. A missing file is not an error.
func (d Dir) DeleteToken() error {
	if err := os.Remove(d.credFilePath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// StripBearer drops a leading "Bearer " scheme.
func StripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
