package provider

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TokenStore persists OAuth tokens across process restarts so a valid
// session can be reused instead of logging in on every sync.
type TokenStore struct {
	db *sql.DB
}

// OpenTokenStore opens (or creates) the SQLite token database at
// dir/tokens.db.
func OpenTokenStore(dir string) (*TokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating token dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "tokens.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening token db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS oauth_tokens (
		username     TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		expires_at   TIMESTAMP NOT NULL,
		saved_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token table: %w", err)
	}

	return &TokenStore{db: db}, nil
}

// Token returns the cached access token for the account, or "" when none is
// stored or the stored one has expired.
func (s *TokenStore) Token(username string) (string, error) {
	var token string
	var expiresAt time.Time
	err := s.db.QueryRow(
		`SELECT access_token, expires_at FROM oauth_tokens WHERE username = ?`,
		username,
	).Scan(&token, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return "", nil
	}
	return token, nil
}

// Save stores or replaces the account's access token.
func (s *TokenStore) Save(username, token string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO oauth_tokens (username, access_token, expires_at) VALUES (?, ?, ?)`,
		username, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Close closes the token database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
