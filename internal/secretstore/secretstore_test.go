package secretstore

import (
	"encoding/hex"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func setup(t *testing.T) (*gorm.DB, Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Secret{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	store, err := New(db, "daybook-test", testKeyHex)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return db, store
}

func TestNew(t *testing.T) {
	db, _ := setup(t)

	t.Run("rejects_short_key", func(t *testing.T) {
		if _, err := New(db, "ns", "deadbeef"); err == nil {
			t.Error("expected error for short key")
		}
	})

	t.Run("rejects_non_hex_key", func(t *testing.T) {
		if _, err := New(db, "ns", "zz"); err == nil {
			t.Error("expected error for non-hex key")
		}
	})
}

func TestSaveRetrieveDelete(t *testing.T) {
	_, store := setup(t)

	if err := store.Save("hunter2", "item-1-password"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Retrieve("item-1-password")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("expected hunter2, got %q", got)
	}

	// Overwrite under the same key
	if err := store.Save("correct horse", "item-1-password"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Retrieve("item-1-password")
	if err != nil {
		t.Fatalf("retrieve after overwrite: %v", err)
	}
	if got != "correct horse" {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := store.Delete("item-1-password"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Retrieve("item-1-password"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}

	// Deleting again is a no-op
	if err := store.Delete("item-1-password"); err != nil {
		t.Errorf("second delete should not error: %v", err)
	}
}

func TestRetrieveMissing(t *testing.T) {
	_, store := setup(t)

	if _, err := store.Retrieve("never-saved"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestValuesEncryptedAtRest(t *testing.T) {
	db, store := setup(t)

	if err := store.Save("top secret", "k"); err != nil {
		t.Fatalf("save: %v", err)
	}

	var row Secret
	if err := db.First(&row, "key = ?", "daybook-test:k").Error; err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if string(row.Value) == "top secret" {
		t.Error("value stored in plaintext")
	}
	if hex.EncodeToString(row.Value) == hex.EncodeToString([]byte("top secret")) {
		t.Error("value stored unencrypted")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	db, _ := setup(t)

	a, err := New(db, "ns-a", testKeyHex)
	if err != nil {
		t.Fatalf("store a: %v", err)
	}
	b, err := New(db, "ns-b", testKeyHex)
	if err != nil {
		t.Fatalf("store b: %v", err)
	}

	if err := a.Save("value-a", "shared-key"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := b.Retrieve("shared-key"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected isolation between namespaces, got %v", err)
	}
}
