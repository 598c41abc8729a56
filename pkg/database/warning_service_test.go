package database

import (
	"fmt"
	"testing"

	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/google/uuid"
)

func TestCreateWarningValidation(t *testing.T) {
	if _, err := CreateWarning("guild", "user", "mod", ""); err != models.ErrEmptyReason {
		t.Errorf("empty reason error = %v, want ErrEmptyReason", err)
	}
	if _, err := CreateWarning("", "user", "mod", "spam"); err != models.ErrMissingIdentifier {
		t.Errorf("missing guild error = %v, want ErrMissingIdentifier", err)
	}
	if _, err := CreateWarning("guild", "", "mod", "spam"); err != models.ErrMissingIdentifier {
		t.Errorf("missing user error = %v, want ErrMissingIdentifier", err)
	}
}

func TestWarningCountMatchesList(t *testing.T) {
	testDB(t)
	guild := testGuildID()
	user := "user-" + uuid.NewString()

	for i := 0; i < 4; i++ {
		if _, err := CreateWarning(guild, user, "mod-1", fmt.Sprintf("reason %d", i)); err != nil {
			t.Fatalf("CreateWarning() error: %v", err)
		}
	}

	warnings, err := GetUserWarnings(guild, user)
	if err != nil {
		t.Fatalf("GetUserWarnings() error: %v", err)
	}
	count, err := CountUserWarnings(guild, user)
	if err != nil {
		t.Fatalf("CountUserWarnings() error: %v", err)
	}

	if int64(len(warnings)) != count {
		t.Errorf("count = %d, list length = %d, want equal", count, len(warnings))
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
}

func TestRemoveWarning(t *testing.T) {
	testDB(t)
	guild := testGuildID()
	user := "user-" + uuid.NewString()

	id, err := CreateWarning(guild, user, "mod-1", "spam")
	if err != nil {
		t.Fatalf("CreateWarning() error: %v", err)
	}

	if err := RemoveWarning(id); err != nil {
		t.Fatalf("RemoveWarning() error: %v", err)
	}

	count, err := CountUserWarnings(guild, user)
	if err != nil {
		t.Fatalf("CountUserWarnings() error: %v", err)
	}
	if count != 0 {
		t.Errorf("count after remove = %d, want 0", count)
	}

	// Removing an id that no longer exists is a no-op
	if err := RemoveWarning(id); err != nil {
		t.Errorf("RemoveWarning() on absent id returned error: %v", err)
	}
}

func TestClearUserWarnings(t *testing.T) {
	testDB(t)
	guild := testGuildID()
	user := "user-" + uuid.NewString()
	otherUser := "user-" + uuid.NewString()

	for i := 0; i < 3; i++ {
		if _, err := CreateWarning(guild, user, "mod-1", "spam"); err != nil {
			t.Fatalf("CreateWarning() error: %v", err)
		}
	}
	if _, err := CreateWarning(guild, otherUser, "mod-1", "spam"); err != nil {
		t.Fatalf("CreateWarning() error: %v", err)
	}

	deleted, err := ClearUserWarnings(guild, user)
	if err != nil {
		t.Fatalf("ClearUserWarnings() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	remaining, err := GetUserWarnings(guild, user)
	if err != nil {
		t.Fatalf("GetUserWarnings() error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("warnings remaining after clear = %d, want 0", len(remaining))
	}

	// The other user's warnings are untouched
	otherCount, err := CountUserWarnings(guild, otherUser)
	if err != nil {
		t.Fatalf("CountUserWarnings() error: %v", err)
	}
	if otherCount != 1 {
		t.Errorf("other user count = %d, want 1", otherCount)
	}
}
