// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, voice, etc.)
package events

import (
	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
// Add your event registration calls here
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (join/leave/update)
	RegisterMemberEvents(client)

	// Message events (create/update/delete)
	RegisterMessageEvents(client)

	// Voice events (join/leave/move, queue teardown on forced disconnect)
	RegisterVoiceEvents(client)

	// Shard events (disconnect/resume)
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
