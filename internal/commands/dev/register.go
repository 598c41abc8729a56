package dev

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient) {
	// Create individual subcommands
	evalCmd := CreateEvalCommand()
	queuesCmd := CreateQueuesCommand()

	// Build the /dev command group with all subcommands
	devGroup := &discordgo.ApplicationCommand{
		Name:        "dev",
		Description: "Comandos de desarrollo",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        evalCmd.Name,
				Description: evalCmd.Description,
				Options:     evalCmd.Options,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        queuesCmd.Name,
				Description: queuesCmd.Description,
				Options:     queuesCmd.Options,
			},
		},
	}

	// Register the individual commands in the command map
	client.Commands.Set("dev.eval", evalCmd)
	client.Commands.Set("dev.queues", queuesCmd)

	// Register the command group as dev-only command
	client.CommandHandler.AddDevCommand(devGroup)
}
