package localstore

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Well-known document keys. These mirror the browser-era storage layout so
// exported data stays interchangeable.
const (
	KeyAppData             = "mindlist_app_data"
	KeyGuestData           = "mindlist_guest_data"
	KeyOnboardingCompleted = "mindlist_onboarding_completed"
	KeyUserProfile         = "mindlist_user_profile"
	KeyTheme               = "theme"
	KeyLanguage            = "language"
	KeySecuritySettings    = "securitySettings"
	KeyNotifications       = "notificationSettings"
	KeySmartFeatures       = "smartFeatures"
	KeyUserThemeColor      = "userThemeColor"
)

// Get returns the document stored under key. The second return is false when
// no document exists.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put stores a document under key, replacing any previous value.
func (db *DB) Put(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := db.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	return err
}

// Delete removes the document under key. Deleting a missing key is not an error.
func (db *DB) Delete(key string) error {
	_, err := db.Exec(`DELETE FROM documents WHERE key = ?`, key)
	return err
}

// PutTx is Put scoped to an existing transaction, for callers that need a
// group of document writes to land atomically.
func PutTx(tx *sql.Tx, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := tx.Exec(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	return err
}

// PutJSONTx encodes v as JSON and stores it under key inside tx.
func PutJSONTx(tx *sql.Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return PutTx(tx, key, string(raw))
}

// DeleteTx removes the document under key inside tx.
func DeleteTx(tx *sql.Tx, key string) error {
	_, err := tx.Exec(`DELETE FROM documents WHERE key = ?`, key)
	return err
}

// Keys returns all stored document keys.
func (db *DB) Keys() ([]string, error) {
	rows, err := db.Query(`SELECT key FROM documents ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// GetJSON decodes the document under key into v. Returns false when the
// document does not exist.
func (db *DB) GetJSON(key string, v any) (bool, error) {
	raw, ok, err := db.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, err
	}
	return true, nil
}

// PutJSON encodes v as JSON and stores it under key.
func (db *DB) PutJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return db.Put(key, string(raw))
}
