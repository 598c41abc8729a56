// Package mod - /mod clear command
package mod

import (
	"fmt"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// bulkDeleteMaxAge is the platform limit: messages older than
// 14 days cannot be bulk-deleted.
const bulkDeleteMaxAge = 14 * 24 * time.Hour

// createClearCommand creates the /mod clear subcommand
func createClearCommand() *discord.Command {
	minAmount := float64(1)
	return discord.NewCommand(
		"clear",
		"Elimina mensajes recientes del canal",
		"mod",
		clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cantidad de mensajes a eliminar (1-100)",
			Required:    true,
			MinValue:    &minAmount,
			MaxValue:    100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Eliminar solo mensajes de este usuario",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la limpieza",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages).
		RequiresDatabase()
}

// clearHandler handles the /mod clear command
func clearHandler(ctx *discord.CommandContext) error {
	amount := ctx.GetIntOption("cantidad")
	if amount < 1 || amount > 100 {
		return ctx.ReplyEphemeral("❌ La cantidad debe estar entre 1 y 100.")
	}

	author := ctx.GetUserOption("usuario")
	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = noReason
	}

	// Deleting can take a moment with an author filter, so defer.
	if err := ctx.Defer(); err != nil {
		return err
	}

	messages, err := ctx.Session.ChannelMessages(ctx.Interaction.ChannelID, 100, "", "", "")
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error al leer mensajes: %v", err))
	}

	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, amount)
	for _, msg := range messages {
		if int64(len(ids)) >= amount {
			break
		}
		if author != nil && msg.Author.ID != author.ID {
			continue
		}
		if msg.Timestamp.Before(cutoff) {
			continue
		}
		ids = append(ids, msg.ID)
	}

	if len(ids) == 0 {
		return ctx.EditReply("❌ No se encontraron mensajes elegibles (los mensajes de más de 14 días no se pueden eliminar).")
	}

	if len(ids) == 1 {
		err = ctx.Session.ChannelMessageDelete(ctx.Interaction.ChannelID, ids[0])
	} else {
		err = ctx.Session.ChannelMessagesBulkDelete(ctx.Interaction.ChannelID, ids)
	}
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error al eliminar mensajes: %v", err))
	}

	target := ctx.User()
	if author != nil {
		target = author
	}
	result := recordCase(ctx, models.ActionClear, target, reason, 0, int64(len(ids)))

	if author != nil {
		return ctx.EditReply(fmt.Sprintf("🧹 Se eliminaron **%d** mensajes de **%s**.%s", len(ids), author.Username, result.Suffix()))
	}
	return ctx.EditReply(fmt.Sprintf("🧹 Se eliminaron **%d** mensajes.%s", len(ids), result.Suffix()))
}
