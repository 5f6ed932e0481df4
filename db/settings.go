package db

import (
	"database/sql"
	"fmt"
	"time"
)

// tokenKey is the fixed settings key holding the bearer credential.
const tokenKey = "auth_token"

// Setting represents a configuration setting
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetSetting stores a value under the given key, replacing any prior value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// GetSetting retrieves a value by key. The second result reports presence.
func (db *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// DeleteSetting removes a key. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(key string) error {
	_, err := db.conn.Exec("DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// SaveToken persists the bearer credential for the current user.
func (db *DB) SaveToken(token string) error {
	return db.SetSetting(tokenKey, token)
}

// Token returns the stored bearer credential, if any.
func (db *DB) Token() (string, bool, error) {
	return db.GetSetting(tokenKey)
}

// ClearToken removes the stored credential.
func (db *DB) ClearToken() error {
	return db.DeleteSetting(tokenKey)
}
