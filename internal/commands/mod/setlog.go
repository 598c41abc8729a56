// Package mod - /mod setlog command
package mod

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createSetLogCommand creates the /mod setlog subcommand
func createSetLogCommand() *discord.Command {
	return discord.NewCommand(
		"setlog",
		"Configura el canal donde se publican los casos de moderación",
		"mod",
		setLogHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal de logs (omite para desactivar)",
			Required:    false,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

// setLogHandler handles the /mod setlog command
func setLogHandler(ctx *discord.CommandContext) error {
	config, err := database.GetGuildConfig(ctx.Interaction.GuildID)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al leer la configuración: %v", err))
	}

	channel := ctx.GetChannelOption("canal")
	if channel == nil {
		config.ModLogChannelID = ""
	} else {
		config.ModLogChannelID = channel.ID
	}

	if _, err := database.SetGuildConfig(*config); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al guardar la configuración: %v", err))
	}

	if channel == nil {
		return ctx.Reply("📋 Canal de logs de moderación desactivado.")
	}
	return ctx.Reply(fmt.Sprintf("📋 Los casos de moderación se publicarán en <#%s>.", channel.ID))
}
