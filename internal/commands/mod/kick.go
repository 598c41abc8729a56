// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a expulsar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la expulsión",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	if _, msg := checkEligibility(ctx, user.ID); msg != "" {
		return ctx.ReplyEphemeral(msg)
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = noReason
	}

	err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, user.ID, reason)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al expulsar: %v", err))
	}

	result := recordCase(ctx, models.ActionKick, user, reason, 0, 0)

	return ctx.Reply(fmt.Sprintf("👢 **%s** ha sido expulsado.%s\n**Razón:** %s",
		user.Username, result.Suffix(), reason))
}
