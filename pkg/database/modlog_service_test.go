package database

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/google/uuid"
)

// testDB connects to the MongoDB instance named by TEST_MONGO_URL. Tests
// that need a live database are skipped when the variable is unset.
func testDB(t *testing.T) {
	t.Helper()

	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set, skipping database test")
	}

	if _, err := Init(url, "WardenBotTest"); err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := EnsureModLogIndexes(); err != nil {
		t.Fatalf("failed to create mod_logs indexes: %v", err)
	}
	if err := EnsureWarningIndexes(); err != nil {
		t.Fatalf("failed to create warnings indexes: %v", err)
	}
}

// testGuildID returns a fresh guild id so runs never interfere with each
// other's counters.
func testGuildID() string {
	return "guild-" + uuid.NewString()
}

func testEntry(guildID, targetID string, action models.ModAction) models.ModLogEntry {
	return models.ModLogEntry{
		GuildID:           guildID,
		TargetID:          targetID,
		TargetUsername:    "target#0001",
		ModeratorID:       "mod-1",
		ModeratorUsername: "mod#0001",
		Action:            action,
		Reason:            "test reason",
	}
}

func TestLogModActionAssignsSequentialCaseNumbers(t *testing.T) {
	testDB(t)
	guild := testGuildID()

	first, err := LogModAction(testEntry(guild, "user-1", models.ActionBan))
	if err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if first.CaseNumber != 1 {
		t.Errorf("first case number = %d, want 1", first.CaseNumber)
	}
	if first.ID == "" {
		t.Error("expected a non-empty id")
	}

	second, err := LogModAction(testEntry(guild, "user-2", models.ActionWarn))
	if err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if second.CaseNumber != 2 {
		t.Errorf("second case number = %d, want 2", second.CaseNumber)
	}
}

func TestLogModActionGuildsAreIndependent(t *testing.T) {
	testDB(t)
	guildA := testGuildID()
	guildB := testGuildID()

	if _, err := LogModAction(testEntry(guildA, "user-1", models.ActionBan)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if _, err := LogModAction(testEntry(guildA, "user-2", models.ActionWarn)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}

	entry, err := LogModAction(testEntry(guildB, "user-3", models.ActionKick))
	if err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if entry.CaseNumber != 1 {
		t.Errorf("case number in fresh guild = %d, want 1", entry.CaseNumber)
	}
}

func TestLogModActionConcurrentAppends(t *testing.T) {
	testDB(t)
	guild := testGuildID()

	const n = 25
	var wg sync.WaitGroup
	results := make(chan int64, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, err := LogModAction(testEntry(guild, fmt.Sprintf("user-%d", i), models.ActionWarn))
			if err != nil {
				errs <- err
				return
			}
			results <- entry.CaseNumber
		}(i)
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent LogModAction() error: %v", err)
	}

	seen := make(map[int64]bool)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate case number %d", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d case numbers, want %d", len(seen), n)
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Errorf("missing case number %d", i)
		}
	}
}

func TestLogModActionRejectsInvalidPayloads(t *testing.T) {
	entry := testEntry("guild-x", "user-1", models.ModAction("explode"))
	if _, err := LogModAction(entry); err == nil {
		t.Error("expected error for unknown action")
	}

	entry = testEntry("guild-x", "user-1", models.ActionBan)
	entry.DurationMs = 1000
	if _, err := LogModAction(entry); err == nil {
		t.Error("expected error for duration on a non-mute action")
	}

	entry = testEntry("guild-x", "user-1", models.ActionWarn)
	entry.MessageCount = 10
	if _, err := LogModAction(entry); err == nil {
		t.Error("expected error for messageCount on a non-clear action")
	}

	entry = testEntry("", "user-1", models.ActionWarn)
	if _, err := LogModAction(entry); err == nil {
		t.Error("expected error for missing guild id")
	}
}

func TestGetCase(t *testing.T) {
	testDB(t)
	guild := testGuildID()

	muteEntry := testEntry(guild, "user-1", models.ActionMute)
	muteEntry.DurationMs = 60000
	created, err := LogModAction(muteEntry)
	if err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}

	entry, err := GetCase(guild, created.CaseNumber)
	if err != nil {
		t.Fatalf("GetCase() error: %v", err)
	}
	if entry == nil {
		t.Fatal("GetCase() returned nil for an existing case")
	}
	if entry.Action != models.ActionMute || entry.DurationMs != 60000 {
		t.Errorf("GetCase() = %+v, want mute with 60000ms duration", entry)
	}

	missing, err := GetCase(guild, 9999)
	if err != nil {
		t.Fatalf("GetCase() error on absent case: %v", err)
	}
	if missing != nil {
		t.Errorf("GetCase() for unassigned number = %+v, want nil", missing)
	}
}

func TestGetGuildModLogsOrderAndLimit(t *testing.T) {
	testDB(t)
	guild := testGuildID()

	for i := 0; i < 5; i++ {
		if _, err := LogModAction(testEntry(guild, fmt.Sprintf("user-%d", i), models.ActionWarn)); err != nil {
			t.Fatalf("LogModAction() error: %v", err)
		}
	}

	entries, err := GetGuildModLogs(guild, 3)
	if err != nil {
		t.Fatalf("GetGuildModLogs() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].CaseNumber <= entries[i+1].CaseNumber {
			t.Errorf("entries not newest-first: %d before %d", entries[i].CaseNumber, entries[i+1].CaseNumber)
		}
	}
	if entries[0].CaseNumber != 5 {
		t.Errorf("newest case = %d, want 5", entries[0].CaseNumber)
	}
}

func TestGetUserModLogsFiltersByTarget(t *testing.T) {
	testDB(t)
	guild := testGuildID()
	otherGuild := testGuildID()

	if _, err := LogModAction(testEntry(guild, "user-a", models.ActionBan)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if _, err := LogModAction(testEntry(guild, "user-b", models.ActionKick)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if _, err := LogModAction(testEntry(guild, "user-a", models.ActionWarn)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}
	if _, err := LogModAction(testEntry(otherGuild, "user-a", models.ActionBan)); err != nil {
		t.Fatalf("LogModAction() error: %v", err)
	}

	entries, err := GetUserModLogs(guild, "user-a", 0)
	if err != nil {
		t.Fatalf("GetUserModLogs() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries for user-a, want 2", len(entries))
	}
	for _, e := range entries {
		if e.TargetID != "user-a" || e.GuildID != guild {
			t.Errorf("entry %+v does not match guild/target filter", e)
		}
	}
	if entries[0].CaseNumber < entries[1].CaseNumber {
		t.Error("entries not newest-first")
	}
}
