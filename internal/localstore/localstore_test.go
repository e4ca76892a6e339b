package localstore

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open document store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.Put(KeyTheme, `"dark"`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, ok, err := db.Get(KeyTheme)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != `"dark"` {
		t.Errorf("Get = (%q, %v), want (%q, true)", value, ok, `"dark"`)
	}
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("missing key reported as present")
	}
}

func TestPutReplacesValue(t *testing.T) {
	db := openTestDB(t)

	if err := db.Put(KeyLanguage, `"en"`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.Put(KeyLanguage, `"de"`); err != nil {
		t.Fatalf("Put replace failed: %v", err)
	}

	value, _, err := db.Get(KeyLanguage)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != `"de"` {
		t.Errorf("value = %q, want %q", value, `"de"`)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := db.Put("k", "v"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := db.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := db.Delete("k"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, ok, _ := db.Get("k"); ok {
		t.Error("key still present after delete")
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if err := db.Put(KeyAppData, `{"version":1}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	defer db.Close()

	value, ok, err := db.Get(KeyAppData)
	if err != nil || !ok {
		t.Fatalf("Get after reopen = (%v, %v)", err, ok)
	}
	if value != `{"version":1}` {
		t.Errorf("value = %q after reopen", value)
	}
}

func TestJSONHelpers(t *testing.T) {
	db := openTestDB(t)

	type profile struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	}

	in := profile{Name: "guest", Level: 3}
	if err := db.PutJSON(KeyUserProfile, in); err != nil {
		t.Fatalf("PutJSON failed: %v", err)
	}

	var out profile
	ok, err := db.GetJSON(KeyUserProfile, &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if !ok || out != in {
		t.Errorf("GetJSON = (%+v, %v), want (%+v, true)", out, ok, in)
	}

	var missing profile
	ok, err = db.GetJSON("missing", &missing)
	if err != nil || ok {
		t.Errorf("GetJSON(missing) = (%v, %v), want (nil, false)", err, ok)
	}
}

func TestTransactionCommitsAllWrites(t *testing.T) {
	db := openTestDB(t)

	err := db.Transaction(func(tx *sql.Tx) error {
		if err := PutTx(tx, KeyAppData, `{"version":1}`); err != nil {
			return err
		}
		if err := PutJSONTx(tx, KeyTheme, "dark"); err != nil {
			return err
		}
		return DeleteTx(tx, "missing")
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	if _, ok, _ := db.Get(KeyAppData); !ok {
		t.Error("app document missing after commit")
	}
	var theme string
	if ok, err := db.GetJSON(KeyTheme, &theme); err != nil || !ok || theme != "dark" {
		t.Errorf("theme = (%q, %v, %v), want (dark, true, nil)", theme, ok, err)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	if err := db.Put(KeyTheme, `"light"`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	failure := errors.New("boom")
	err := db.Transaction(func(tx *sql.Tx) error {
		if err := PutTx(tx, KeyTheme, `"dark"`); err != nil {
			return err
		}
		return failure
	})
	if err != failure {
		t.Fatalf("Transaction error = %v, want the callback error", err)
	}

	value, _, err := db.Get(KeyTheme)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != `"light"` {
		t.Errorf("value = %q, rollback did not restore the old document", value)
	}
}

func TestKeys(t *testing.T) {
	db := openTestDB(t)

	for _, k := range []string{KeyTheme, KeyAppData, KeyGuestData} {
		if err := db.Put(k, "{}"); err != nil {
			t.Fatalf("Put(%s) failed: %v", k, err)
		}
	}

	keys, err := db.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("got %d keys, want 3: %v", len(keys), keys)
	}
}
