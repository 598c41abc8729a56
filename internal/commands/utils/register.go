package utils

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
)

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	// Create individual subcommands (each can be in its own file)
	pingCmd := createPingCommand()
	statusCmd := createStatusCommand()
	helpCmd := createHelpCommand()
	statsCmd := createStatsCommand()

	// Build the /utils command group with all subcommands
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		pingCmd,
		statusCmd,
		helpCmd,
		statsCmd,
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
