// Package mod - /mod unban command
package mod

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Quita el baneo a un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario a desbanear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// unbanHandler handles the /mod unban command. The target is addressed by id
// since banned users are no longer members.
func unbanHandler(ctx *discord.CommandContext) error {
	userID := ctx.GetStringOption("id")
	if userID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar el ID del usuario.")
	}

	ban, err := ctx.Session.GuildBan(ctx.Interaction.GuildID, userID)
	if err != nil || ban == nil {
		return ctx.ReplyEphemeral("❌ Ese usuario no está baneado.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = noReason
	}

	if err := ctx.Session.GuildBanDelete(ctx.Interaction.GuildID, userID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al desbanear: %v", err))
	}

	result := recordCase(ctx, models.ActionUnban, ban.User, reason, 0, 0)

	return ctx.Reply(fmt.Sprintf("🔓 **%s** ha sido desbaneado.%s", ban.User.Username, result.Suffix()))
}
