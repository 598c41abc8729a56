// Package mod - /mod ban command
package mod

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del ban",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// banHandler handles the /mod ban command
func banHandler(ctx *discord.CommandContext) error {
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

	days := int(ctx.GetIntOption("dias"))

	// Perform the ban
	err := ctx.Session.GuildBanCreateWithReason(
		ctx.Interaction.GuildID,
		user.ID,
		reason,
		days,
	)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al banear: %v", err))
	}

	result := recordCase(ctx, models.ActionBan, user, reason, 0, 0)

	return ctx.Reply(fmt.Sprintf("🔨 **%s** ha sido baneado.%s\n**Razón:** %s",
		user.Username, result.Suffix(), reason))
}
