package utils

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **Ayuda de WardenBot Go**\n\n" +
				"**Comandos disponibles:**\n" +
				"• `/utils ping` - Comprueba la latencia\n" +
				"• `/utils status` - Estado del bot\n" +
				"• `/utils stats` - Estadísticas del bot\n" +
				"• `/play <query>` - Reproduce música\n" +
				"• `/pause` / `/resume` - Pausa o resume la música\n" +
				"• `/skip` - Salta la canción actual\n" +
				"• `/stop` - Detiene la música\n" +
				"• `/queue` - Muestra la cola\n" +
				"• `/nowplaying` - Canción actual\n" +
				"• `/volume <0-100>` - Ajusta el volumen\n" +
				"• `/mod ban <usuario> [razón]` - Banea a un usuario\n" +
				"• `/mod unban <id>` - Desbanea a un usuario\n" +
				"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
				"• `/mod mute <usuario> <duración> [razón]` - Silencia a un usuario\n" +
				"• `/mod unmute <usuario>` - Quita el silencio\n" +
				"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
				"• `/mod warnings <usuario>` - Lista las advertencias\n" +
				"• `/mod removewarn <id>` - Elimina una advertencia\n" +
				"• `/mod clearwarns <usuario>` - Limpia las advertencias\n" +
				"• `/mod clear <cantidad> [usuario]` - Elimina mensajes\n" +
				"• `/mod case <numero>` - Consulta un caso\n" +
				"• `/mod history <usuario>` - Historial de moderación",
		)
	}()
	return nil
}
