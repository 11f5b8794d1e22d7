package services

import (
	"testing"

	"daybook/internal/pagination"
	"daybook/internal/testutil"
)

func TestCreateJournalEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		entry, err := svc.CreateEntry(user.ID, testutil.Day(2026, 8, 20), "Morning", "Slept well.", "good")
		testutil.AssertNoError(t, err)

		if entry.ID == "" {
			t.Fatal("expected non-empty entry ID")
		}
		if entry.Mood != "good" {
			t.Errorf("expected mood good, got %q", entry.Mood)
		}
	})

	t.Run("rejects_empty_body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateEntry(user.ID, testutil.Day(2026, 8, 20), "Empty", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserJournalEntries(t *testing.T) {
	t.Run("newest_day_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		for _, day := range []int{10, 25, 17} {
			_, err := svc.CreateEntry(user.ID, testutil.Day(2026, 8, day), "", "entry body", "")
			testutil.AssertNoError(t, err)
		}

		result, err := svc.GetUserEntries(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 entries, got %d", result.TotalItems)
		}
		testutil.AssertSameDay(t, testutil.Day(2026, 8, 25), result.Data[0].Day)
		testutil.AssertSameDay(t, testutil.Day(2026, 8, 10), result.Data[2].Day)
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUserWithEmail(t, db, "bob@example.com")

		_, err := svc.CreateEntry(alice.ID, testutil.Day(2026, 8, 20), "", "alice only", "")
		testutil.AssertNoError(t, err)

		result, err := svc.GetUserEntries(bob.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 0 {
			t.Fatalf("expected no entries for other user, got %d", result.TotalItems)
		}
	})
}

func TestUpdateJournalEntry(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		entry, err := svc.CreateEntry(user.ID, testutil.Day(2026, 8, 20), "Draft", "First pass.", "okay")
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateEntry(user.ID, entry.ID, "", "Second pass.", "great")
		testutil.AssertNoError(t, err)

		if updated.Title != "Draft" {
			t.Errorf("title should be untouched, got %q", updated.Title)
		}
		if updated.Body != "Second pass." {
			t.Errorf("expected updated body, got %q", updated.Body)
		}
		if updated.Mood != "great" {
			t.Errorf("expected updated mood, got %q", updated.Mood)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateEntry(user.ID, "missing-id", "x", "", "")
		testutil.AssertAppError(t, err, "JOURNAL_ENTRY_NOT_FOUND")
	})
}

func TestDeleteJournalEntry(t *testing.T) {
	t.Run("deletes_own_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		user := testutil.CreateTestUser(t, db)

		entry, err := svc.CreateEntry(user.ID, testutil.Day(2026, 8, 20), "", "to delete", "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteEntry(user.ID, entry.ID))

		_, err = svc.GetEntryByID(user.ID, entry.ID)
		testutil.AssertAppError(t, err, "JOURNAL_ENTRY_NOT_FOUND")
	})

	t.Run("cannot_delete_other_users_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewJournalService(db)
		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUserWithEmail(t, db, "bob@example.com")

		entry, err := svc.CreateEntry(alice.ID, testutil.Day(2026, 8, 20), "", "alice only", "")
		testutil.AssertNoError(t, err)

		err = svc.DeleteEntry(bob.ID, entry.ID)
		testutil.AssertAppError(t, err, "JOURNAL_ENTRY_NOT_FOUND")
	})
}
