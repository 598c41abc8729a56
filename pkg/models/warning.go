package models

import "errors"

// Sentinel validation errors shared by the stores.
var (
	ErrInvalidAction     = errors.New("invalid moderation action")
	ErrMissingIdentifier = errors.New("guildId, targetId and moderatorId are required")
	ErrEmptyReason       = errors.New("reason must not be empty")
)

// Warning is a standalone user warning. Warnings carry no case number and
// are addressed by their own id; they can be removed one by one or in bulk
// per (guild, user) pair.
type Warning struct {
	ID          string `bson:"_id" json:"id"`
	GuildID     string `bson:"guildId" json:"guildId"`
	UserID      string `bson:"userId" json:"userId"`
	ModeratorID string `bson:"moderatorId" json:"moderatorId"`
	Reason      string `bson:"reason" json:"reason"`
	CreatedAt   int64  `bson:"createdAt" json:"createdAt"`
}
