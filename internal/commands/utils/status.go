package utils

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	)
}

// statusHandler handles the /utils status command
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		db := database.Get()
		dbStatus, _ := db.GetStatus()

		ctx.Reply(fmt.Sprintf(
			"📊 **Estado del Bot**\n"+
				"• Bot: 🟢 Online\n"+
				"• Base de datos: %s\n"+
				"• Servidores: %d",
			dbStatus,
			ctx.Client.GuildCount(),
		))
	}()
	return nil
}
