// Package mod - /mod case and /mod history commands
package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/WardenStudios/WardenBotGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createCaseCommand creates the /mod case subcommand
func createCaseCommand() *discord.Command {
	minCase := float64(1)
	return discord.NewCommand(
		"case",
		"Muestra un caso de moderación por su número",
		"mod",
		caseHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "numero",
			Description: "Número del caso",
			Required:    true,
			MinValue:    &minCase,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// createHistoryCommand creates the /mod history subcommand
func createHistoryCommand() *discord.Command {
	return discord.NewCommand(
		"history",
		"Muestra el historial de moderación del servidor o de un usuario",
		"mod",
		historyHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Filtrar por usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// caseHandler handles the /mod case command
func caseHandler(ctx *discord.CommandContext) error {
	caseNumber := ctx.GetIntOption("numero")

	entry, err := database.GetCase(ctx.Interaction.GuildID, caseNumber)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al consultar el caso: %v", err))
	}
	if entry == nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No existe el caso #%d en este servidor.", caseNumber))
	}

	return ctx.ReplyEmbed(moderation.CaseEmbed(entry))
}

// historyHandler handles the /mod history command. Without a user option it
// lists the guild's most recent cases.
func historyHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")

	var entries []*models.ModLogEntry
	var err error
	var title string
	if user != nil {
		entries, err = database.GetUserModLogs(ctx.Interaction.GuildID, user.ID, 10)
		title = fmt.Sprintf("📋 Historial de %s", user.Username)
	} else {
		entries, err = database.GetGuildModLogs(ctx.Interaction.GuildID, 10)
		title = "📋 Historial del servidor"
	}
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al consultar el historial: %v", err))
	}

	if len(entries) == 0 {
		if user != nil {
			return ctx.Reply(fmt.Sprintf("✅ **%s** no tiene historial de moderación.", user.Username))
		}
		return ctx.Reply("✅ Este servidor no tiene casos de moderación.")
	}

	var sb strings.Builder
	for _, e := range entries {
		created := time.UnixMilli(e.CreatedAt).Format("2006-01-02")
		sb.WriteString(fmt.Sprintf("**#%d** · `%s` — %s (%s)\n", e.CaseNumber, e.Action, e.Reason, created))
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: sb.String(),
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Mostrando los últimos %d casos", len(entries)),
		},
	}
	return ctx.ReplyEmbed(embed)
}
