package dev

import (
	"fmt"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/errors"
	"github.com/WardenStudios/WardenBotGo/pkg/music"
)

// CreateQueuesCommand crea el comando /dev queues
func CreateQueuesCommand() *discord.Command {
	return discord.NewCommand(
		"queues",
		"Muestra las colas de música activas en todos los servidores",
		"dev",
		queuesHandler,
	).AsDev()
}

func queuesHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		manager := music.Get()
		if manager == nil {
			ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
			return
		}

		ctx.ReplyEphemeral(fmt.Sprintf("🎛️ Colas activas: **%d** (de %d servidores)",
			manager.ActiveQueues(), ctx.Client.GuildCount()))
	}()
	return nil
}
