// Package mod - /mod warnings, /mod removewarn and /mod clearwarns commands
package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warnings subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Muestra las advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar (por defecto, tú mismo)",
			Required:    false,
		},
	).RequiresDatabase()
}

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia por su ID",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(removeWarnAutoComplete).
		RequiresDatabase()
}

// createClearWarnsCommand creates the /mod clearwarns subcommand
func createClearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Elimina todas las advertencias de un usuario",
		"mod",
		clearWarnsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a limpiar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// warningsHandler handles the /mod warnings command. Anyone may look up
// their own warnings; other users require moderation permission.
func warningsHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		user = ctx.User()
	}

	if user.ID != ctx.User().ID &&
		ctx.Interaction.Member.Permissions&discordgo.PermissionModerateMembers == 0 {
		return ctx.ReplyEphemeral("❌ Solo puedes consultar tus propias advertencias.")
	}

	warnings, err := database.GetUserWarnings(ctx.Interaction.GuildID, user.ID)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al consultar advertencias: %v", err))
	}

	if len(warnings) == 0 {
		return ctx.Reply(fmt.Sprintf("✅ **%s** no tiene advertencias.", user.Username))
	}

	var sb strings.Builder
	for i, w := range warnings {
		if i >= 10 {
			sb.WriteString(fmt.Sprintf("… y %d más\n", len(warnings)-10))
			break
		}
		created := time.UnixMilli(w.CreatedAt).Format("2006-01-02 15:04")
		sb.WriteString(fmt.Sprintf("`%s` — %s (<@%s>, %s)\n", w.ID, w.Reason, w.ModeratorID, created))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚠️ Advertencias de %s (%d)", user.Username, len(warnings)),
		Description: sb.String(),
		Color:       0xFFA500,
	}
	return ctx.ReplyEmbed(embed)
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	warningID := ctx.GetStringOption("id")
	if warningID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar el ID de la advertencia.")
	}

	if err := database.RemoveWarning(warningID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al eliminar la advertencia: %v", err))
	}

	return ctx.Reply(fmt.Sprintf("🗑️ Advertencia `%s` eliminada.", warningID))
}

// removeWarnAutoComplete suggests recent warning ids for the guild, filtered
// by what the moderator has typed so far against the id or the reason.
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	partial := strings.ToLower(ctx.GetStringOption("id"))

	warnings, err := database.GetGuildWarnings(ctx.Interaction.GuildID, 25)
	if err != nil {
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(warnings))
	for _, w := range warnings {
		if partial != "" &&
			!strings.Contains(strings.ToLower(w.ID), partial) &&
			!strings.Contains(strings.ToLower(w.Reason), partial) {
			continue
		}
		label := fmt.Sprintf("%s — %s", w.ID, w.Reason)
		if len(label) > 100 {
			label = label[:97] + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  label,
			Value: w.ID,
		})
		if len(choices) == 25 {
			break
		}
	}

	_ = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// clearWarnsHandler handles the /mod clearwarns command
func clearWarnsHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	deleted, err := database.ClearUserWarnings(ctx.Interaction.GuildID, user.ID)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al limpiar advertencias: %v", err))
	}

	if deleted == 0 {
		return ctx.Reply(fmt.Sprintf("✅ **%s** no tenía advertencias.", user.Username))
	}

	return ctx.Reply(fmt.Sprintf("🗑️ Se eliminaron **%d** advertencias de **%s**.", deleted, user.Username))
}
