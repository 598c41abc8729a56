// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, music, mod, dev)
package commands

import (
	"github.com/WardenStudios/WardenBotGo/internal/commands/dev"
	"github.com/WardenStudios/WardenBotGo/internal/commands/mod"
	"github.com/WardenStudios/WardenBotGo/internal/commands/utils"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Utility commands (/utils ping, /utils status, /utils stats, /utils help)
	utils.RegisterUtilsCommands(client)

	// Music commands (/play, /pause, /resume, /skip, /stop, /queue, /volume, /nowplaying)
	RegisterMusicCommands(client)

	// Moderation commands (/mod ban, /mod kick, /mod warn, /mod mute, ...)
	mod.RegisterModCommands(client)

	// Developer commands (/dev eval, /dev queues), only in the dev guild
	dev.Register(client)
}
