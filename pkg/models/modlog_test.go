package models

import (
	"errors"
	"testing"
)

func baseEntry(action ModAction) ModLogEntry {
	return ModLogEntry{
		GuildID:           "guild-1",
		TargetID:          "user-1",
		TargetUsername:    "user#0001",
		ModeratorID:       "mod-1",
		ModeratorUsername: "mod#0001",
		Action:            action,
	}
}

func TestModActionValid(t *testing.T) {
	valid := []ModAction{ActionWarn, ActionClear, ActionBan, ActionKick, ActionUnban, ActionMute, ActionUnmute}
	for _, a := range valid {
		if !a.Valid() {
			t.Errorf("action %q should be valid", a)
		}
	}

	for _, a := range []ModAction{"", "softban", "BAN", "timeout"} {
		if a.Valid() {
			t.Errorf("action %q should be invalid", a)
		}
	}
}

func TestValidatePayload(t *testing.T) {
	entry := baseEntry(ActionBan)
	if err := entry.ValidatePayload(); err != nil {
		t.Errorf("plain ban should validate, got %v", err)
	}

	entry = baseEntry(ActionMute)
	entry.DurationMs = 300000
	if err := entry.ValidatePayload(); err != nil {
		t.Errorf("mute with duration should validate, got %v", err)
	}

	entry = baseEntry(ActionClear)
	entry.MessageCount = 25
	if err := entry.ValidatePayload(); err != nil {
		t.Errorf("clear with messageCount should validate, got %v", err)
	}
}

func TestValidatePayloadRejectsUnknownAction(t *testing.T) {
	entry := baseEntry("explode")
	err := entry.ValidatePayload()
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("error = %v, want ErrInvalidAction", err)
	}
}

func TestValidatePayloadRejectsMissingIdentifiers(t *testing.T) {
	entry := baseEntry(ActionWarn)
	entry.GuildID = ""
	if !errors.Is(entry.ValidatePayload(), ErrMissingIdentifier) {
		t.Error("missing guild id should be rejected")
	}

	entry = baseEntry(ActionWarn)
	entry.TargetID = ""
	if !errors.Is(entry.ValidatePayload(), ErrMissingIdentifier) {
		t.Error("missing target id should be rejected")
	}

	entry = baseEntry(ActionWarn)
	entry.ModeratorID = ""
	if !errors.Is(entry.ValidatePayload(), ErrMissingIdentifier) {
		t.Error("missing moderator id should be rejected")
	}
}

func TestValidatePayloadPerActionFields(t *testing.T) {
	entry := baseEntry(ActionBan)
	entry.DurationMs = 1000
	if entry.ValidatePayload() == nil {
		t.Error("duration on ban should be rejected")
	}

	entry = baseEntry(ActionMute)
	entry.DurationMs = -1
	if entry.ValidatePayload() == nil {
		t.Error("negative duration should be rejected")
	}

	entry = baseEntry(ActionWarn)
	entry.MessageCount = 5
	if entry.ValidatePayload() == nil {
		t.Error("messageCount on warn should be rejected")
	}

	entry = baseEntry(ActionClear)
	entry.MessageCount = -5
	if entry.ValidatePayload() == nil {
		t.Error("negative messageCount should be rejected")
	}
}
