// Package mod provides moderation commands organized as subcommands under /mod.
// Each command is in its own file for better organization.
package mod

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/WardenStudios/WardenBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const noReason = "Sin razón especificada"

// resolveMember fetches a guild member, preferring the state cache.
func resolveMember(ctx *discord.CommandContext, userID string) (*discordgo.Member, error) {
	member, err := ctx.Session.State.Member(ctx.Interaction.GuildID, userID)
	if err == nil && member != nil {
		return member, nil
	}
	return ctx.Session.GuildMember(ctx.Interaction.GuildID, userID)
}

// checkEligibility resolves the target member and runs the moderation
// hierarchy rules against the executor and the bot. The returned message is
// user-facing; a nil member with empty message means the target is not in
// the guild.
func checkEligibility(ctx *discord.CommandContext, targetID string) (*discordgo.Member, string) {
	guild, err := ctx.Session.State.Guild(ctx.Interaction.GuildID)
	if err != nil {
		guild, err = ctx.Session.Guild(ctx.Interaction.GuildID)
		if err != nil {
			return nil, "❌ No se pudo obtener la información del servidor."
		}
	}

	target, err := resolveMember(ctx, targetID)
	if err != nil || target == nil {
		return nil, "❌ Ese usuario no está en el servidor."
	}

	bot, err := resolveMember(ctx, ctx.Session.State.User.ID)
	if err != nil || bot == nil {
		return nil, "❌ No se pudo verificar los permisos del bot."
	}

	if err := moderation.CanModerate(guild, ctx.Member(), target, bot); err != nil {
		return nil, "❌ " + err.Error()
	}

	return target, ""
}

// recordCase writes the ledger entry for an action that already succeeded.
func recordCase(ctx *discord.CommandContext, action models.ModAction, target *discordgo.User, reason string, durationMs, messageCount int64) moderation.ActionResult {
	return moderation.Record(ctx.Session, models.ModLogEntry{
		GuildID:           ctx.Interaction.GuildID,
		TargetID:          target.ID,
		TargetUsername:    target.Username,
		ModeratorID:       ctx.User().ID,
		ModeratorUsername: ctx.User().Username,
		Action:            action,
		Reason:            reason,
		DurationMs:        durationMs,
		MessageCount:      messageCount,
	})
}
