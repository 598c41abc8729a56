package models

// GuildConfig holds the per-guild bot settings. At most one document exists
// per guild (unique index on guildId); absent documents mean defaults.
type GuildConfig struct {
	GuildID         string `bson:"guildId" json:"guildId"`
	ModLogChannelID string `bson:"modLogChannelId,omitempty" json:"modLogChannelId,omitempty"`
	MuteRoleID      string `bson:"muteRoleId,omitempty" json:"muteRoleId,omitempty"`
	AutoModEnabled  bool   `bson:"autoModEnabled" json:"autoModEnabled"`
}
