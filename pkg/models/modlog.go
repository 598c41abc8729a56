// Package models contains the persistent document types shared between the
// database services and the command layer.
package models

import "fmt"

// ModAction is the discriminant for a moderation log entry. The optional
// payload fields of ModLogEntry are only valid for specific actions.
type ModAction string

const (
	ActionWarn   ModAction = "warn"
	ActionClear  ModAction = "clear"
	ActionBan    ModAction = "ban"
	ActionKick   ModAction = "kick"
	ActionUnban  ModAction = "unban"
	ActionMute   ModAction = "mute"
	ActionUnmute ModAction = "unmute"
)

// Valid reports whether the action is one of the known moderation actions.
func (a ModAction) Valid() bool {
	switch a {
	case ActionWarn, ActionClear, ActionBan, ActionKick, ActionUnban, ActionMute, ActionUnmute:
		return true
	}
	return false
}

// ModLogEntry is one entry of the per-guild moderation case ledger.
// Entries are immutable once inserted; CaseNumber values for a guild form
// the exact sequence 1..N with no gaps or duplicates.
type ModLogEntry struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	GuildID           string    `bson:"guildId" json:"guildId"`
	TargetID          string    `bson:"targetId" json:"targetId"`
	TargetUsername    string    `bson:"targetUsername" json:"targetUsername"`
	ModeratorID       string    `bson:"moderatorId" json:"moderatorId"`
	ModeratorUsername string    `bson:"moderatorUsername" json:"moderatorUsername"`
	CaseNumber        int64     `bson:"caseNumber" json:"caseNumber"`
	Action            ModAction `bson:"action" json:"action"`
	Reason            string    `bson:"reason,omitempty" json:"reason,omitempty"`
	// DurationMs only accompanies ActionMute.
	DurationMs int64 `bson:"duration,omitempty" json:"duration,omitempty"`
	// MessageCount only accompanies ActionClear.
	MessageCount int64 `bson:"messageCount,omitempty" json:"messageCount,omitempty"`
	CreatedAt    int64 `bson:"createdAt" json:"createdAt"`
}

// ValidatePayload checks the action enum and the per-action optional fields.
// It runs before anything touches the database.
func (e *ModLogEntry) ValidatePayload() error {
	if !e.Action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}
	if e.GuildID == "" || e.TargetID == "" || e.ModeratorID == "" {
		return ErrMissingIdentifier
	}
	if e.DurationMs < 0 {
		return fmt.Errorf("negative duration %d", e.DurationMs)
	}
	if e.DurationMs > 0 && e.Action != ActionMute {
		return fmt.Errorf("duration is only valid for mute, got %q", e.Action)
	}
	if e.MessageCount < 0 {
		return fmt.Errorf("negative message count %d", e.MessageCount)
	}
	if e.MessageCount > 0 && e.Action != ActionClear {
		return fmt.Errorf("messageCount is only valid for clear, got %q", e.Action)
	}
	return nil
}
