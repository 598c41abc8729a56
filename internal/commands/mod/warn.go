// Package mod - /mod warn command
package mod

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// warnHandler handles the /mod warn command. A warning writes both stores:
// the standalone warning and a case in the moderation ledger.
func warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar una razón.")
	}

	if _, msg := checkEligibility(ctx, user.ID); msg != "" {
		return ctx.ReplyEphemeral(msg)
	}

	if _, err := database.CreateWarning(ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al guardar la advertencia: %v", err))
	}

	result := recordCase(ctx, models.ActionWarn, user, reason, 0, 0)

	count, err := database.CountUserWarnings(ctx.Interaction.GuildID, user.ID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo contar las advertencias de %s: %v", user.ID, err), "Mod")
	}

	// Best-effort DM, closed DMs are not an error
	go notifyWarnedUser(ctx, user, reason)

	return ctx.Reply(fmt.Sprintf("⚠️ **%s** ha sido advertido.%s\n**Razón:** %s\n**Advertencias totales:** %d",
		user.Username, result.Suffix(), reason, count))
}

// notifyWarnedUser DMs the warned user. Failures are only logged at debug
// level since most users keep DMs closed.
func notifyWarnedUser(ctx *discord.CommandContext, user *discordgo.User, reason string) {
	channel, err := ctx.Session.UserChannelCreate(user.ID)
	if err != nil {
		return
	}

	guildName := ctx.Interaction.GuildID
	if guild, err := ctx.Session.State.Guild(ctx.Interaction.GuildID); err == nil {
		guildName = guild.Name
	}

	_, err = ctx.Session.ChannelMessageSend(channel.ID,
		fmt.Sprintf("⚠️ Has recibido una advertencia en **%s**.\n**Razón:** %s", guildName, reason))
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudo enviar DM de advertencia a %s (DMs cerrados)", user.ID), "Mod")
	}
}
