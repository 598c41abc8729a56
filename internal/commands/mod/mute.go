// Package mod - /mod mute and /mod unmute commands
package mod

import (
	"fmt"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/WardenStudios/WardenBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		muteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del silencio (ej: 30s, 10m, 2h, 7d)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio a un usuario",
		"mod",
		unmuteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a des-silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// muteHandler handles the /mod mute command
func muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	duration, err := moderation.ParseDuration(ctx.GetStringOption("duracion"))
	if err != nil {
		return ctx.ReplyEphemeral("❌ " + err.Error())
	}
	if duration > moderation.MaxMuteDuration {
		return ctx.ReplyEphemeral("❌ La duración máxima de un silencio es de 28 días.")
	}

	if _, msg := checkEligibility(ctx, user.ID); msg != "" {
		return ctx.ReplyEphemeral(msg)
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = noReason
	}

	timeoutUntil := time.Now().Add(duration)
	if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, &timeoutUntil); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al silenciar: %v", err))
	}

	result := recordCase(ctx, models.ActionMute, user, reason, duration.Milliseconds(), 0)

	return ctx.Reply(fmt.Sprintf("🔇 **%s** ha sido silenciado por %s.%s\n**Razón:** %s",
		user.Username, duration, result.Suffix(), reason))
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	target, msg := checkEligibility(ctx, user.ID)
	if msg != "" {
		return ctx.ReplyEphemeral(msg)
	}

	if target.CommunicationDisabledUntil == nil || target.CommunicationDisabledUntil.Before(time.Now()) {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ **%s** no está silenciado.", user.Username))
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = noReason
	}

	if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, nil); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al quitar el silencio: %v", err))
	}

	result := recordCase(ctx, models.ActionUnmute, user, reason, 0, 0)

	return ctx.Reply(fmt.Sprintf("🔊 **%s** ya no está silenciado.%s", user.Username, result.Suffix()))
}
