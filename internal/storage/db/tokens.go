package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenGitHub is the source id of the token used for release checks.
const TokenGitHub = "github"

// StoredToken is an API token kept for a remote service
type StoredToken struct {
	SourceID  string
	Token     string
	UpdatedAt time.Time
}

// SaveToken stores or replaces the token for a service
func (d *DB) SaveToken(sourceID, token string) error {
	_, err := d.Exec(`
		INSERT INTO auth_tokens (source_id, token_data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source_id) DO UPDATE SET
			token_data = excluded.token_data,
			updated_at = CURRENT_TIMESTAMP
	`, sourceID, token)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// GetToken returns the stored token, or nil when none is saved
func (d *DB) GetToken(sourceID string) (*StoredToken, error) {
	var token StoredToken
	err := d.QueryRow(`
		SELECT source_id, token_data, updated_at FROM auth_tokens WHERE source_id = ?
	`, sourceID).Scan(&token.SourceID, &token.Token, &token.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return &token, nil
}

// DeleteToken removes the token for a service
func (d *DB) DeleteToken(sourceID string) error {
	if _, err := d.Exec("DELETE FROM auth_tokens WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
