// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient) {
	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createBanCommand(),
		createUnbanCommand(),
		createKickCommand(),
		createMuteCommand(),
		createUnmuteCommand(),
		createWarnCommand(),
		createWarningsCommand(),
		createRemoveWarnCommand(),
		createClearWarnsCommand(),
		createClearCommand(),
		createCaseCommand(),
		createHistoryCommand(),
		createSetLogCommand(),
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(modGroup)
}
