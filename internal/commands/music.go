// Package commands provides music commands for the bot.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WardenStudios/WardenBotGo/pkg/discord"
	"github.com/WardenStudios/WardenBotGo/pkg/lavalink"
	"github.com/WardenStudios/WardenBotGo/pkg/music"
	"github.com/bwmarrin/discordgo"
)

// minVolumeFloat is the minimum volume value for Discord command options
var minVolumeFloat = 0.0

// RegisterMusicCommands registers all music commands
func RegisterMusicCommands(client *discord.ExtendedClient) {
	// Play command
	playCmd := discord.NewCommand(
		"play",
		"Reproduce una canción o la añade a la cola",
		"music",
		playHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Nombre de la canción o URL",
			Required:    true,
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(playCmd)
	client.CommandHandler.AddGlobalCommand(playCmd.ToApplicationCommand())

	// Pause command
	pauseCmd := discord.NewCommand(
		"pause",
		"Pausa la reproducción",
		"music",
		pauseHandler,
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(pauseCmd)
	client.CommandHandler.AddGlobalCommand(pauseCmd.ToApplicationCommand())

	// Resume command
	resumeCmd := discord.NewCommand(
		"resume",
		"Resume la reproducción pausada",
		"music",
		resumeHandler,
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(resumeCmd)
	client.CommandHandler.AddGlobalCommand(resumeCmd.ToApplicationCommand())

	// Skip command
	skipCmd := discord.NewCommand(
		"skip",
		"Salta a la siguiente canción",
		"music",
		skipHandler,
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(skipCmd)
	client.CommandHandler.AddGlobalCommand(skipCmd.ToApplicationCommand())

	// Stop command
	stopCmd := discord.NewCommand(
		"stop",
		"Detiene la reproducción y limpia la cola",
		"music",
		stopHandler,
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(stopCmd)
	client.CommandHandler.AddGlobalCommand(stopCmd.ToApplicationCommand())

	// Queue command
	queueCmd := discord.NewCommand(
		"queue",
		"Muestra la cola de reproducción",
		"music",
		queueHandler,
	)
	client.CommandHandler.RegisterCommand(queueCmd)
	client.CommandHandler.AddGlobalCommand(queueCmd.ToApplicationCommand())

	// Volume command
	volumeCmd := discord.NewCommand(
		"volume",
		"Ajusta el volumen de reproducción",
		"music",
		volumeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "level",
			Description: "Nivel de volumen (0-100), omite para consultar",
			Required:    false,
			MinValue:    &minVolumeFloat,
			MaxValue:    100,
		},
	).RequiresVoice()
	client.CommandHandler.RegisterCommand(volumeCmd)
	client.CommandHandler.AddGlobalCommand(volumeCmd.ToApplicationCommand())

	// NowPlaying command
	npCmd := discord.NewCommand(
		"nowplaying",
		"Muestra la canción que se está reproduciendo",
		"music",
		nowPlayingHandler,
	)
	client.CommandHandler.RegisterCommand(npCmd)
	client.CommandHandler.AddGlobalCommand(npCmd.ToApplicationCommand())
}

// musicManager resolves the global queue manager, nil when music is disabled
func musicManager() *music.Manager {
	return music.Get()
}

// playHandler handles the /play command
func playHandler(ctx *discord.CommandContext) error {
	query := ctx.GetStringOption("query")
	if query == "" {
		return ctx.ReplyEphemeral("❌ Debes proporcionar una canción para reproducir.")
	}

	// Get user's voice channel
	voiceState, err := ctx.Session.State.VoiceState(ctx.Interaction.GuildID, ctx.User().ID)
	if err != nil || voiceState.ChannelID == "" {
		return ctx.ReplyEphemeral("❌ Debes estar en un canal de voz.")
	}

	manager := musicManager()
	lavalinkClient := lavalink.Get()
	if manager == nil || lavalinkClient == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	// Defer the response since search might take time
	ctx.Defer()

	result, err := lavalinkClient.Search(query)
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error buscando: %v", err))
	}

	if result.LoadType == "empty" || len(result.Tracks) == 0 {
		return ctx.EditReply("❌ No se encontraron resultados.")
	}

	if result.LoadType == "error" && result.Exception != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error: %s", result.Exception.Message))
	}

	raw := result.Tracks[0]
	track := raw.ToMusicTrack(ctx.User().ID)

	started, position, err := manager.Enqueue(ctx.Interaction.GuildID, voiceState.ChannelID, ctx.Interaction.ChannelID, track)
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error reproduciendo: %v", err))
	}

	title := "🎵 Añadido a la cola"
	if started {
		title = "🎵 Reproduciendo ahora"
	}

	embed := &discordgo.MessageEmbed{
		Color:       0x5865F2, // Blurple
		Title:       title,
		Description: fmt.Sprintf("[%s](%s)", raw.Info.Title, raw.Info.URI),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: raw.Info.ArtworkURL,
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artista",
				Value:  raw.Info.Author,
				Inline: true,
			},
			{
				Name:   "Duración",
				Value:  formatDuration(raw.Info.Length),
				Inline: true,
			},
		},
	}

	if !started {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Posición",
			Value:  fmt.Sprintf("#%d", position),
			Inline: true,
		})
	}

	return ctx.EditReplyEmbed(embed)
}

// pauseHandler handles the /pause command
func pauseHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	if err := manager.Pause(ctx.Interaction.GuildID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ %s", capitalize(err.Error())))
	}

	return ctx.Reply("⏸️ Reproducción pausada.")
}

// resumeHandler handles the /resume command
func resumeHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	if err := manager.Resume(ctx.Interaction.GuildID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ %s", capitalize(err.Error())))
	}

	return ctx.Reply("▶️ Reproducción resumida.")
}

// skipHandler handles the /skip command
func skipHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	if err := manager.Skip(ctx.Interaction.GuildID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ %s", capitalize(err.Error())))
	}

	return ctx.Reply("⏭️ Canción saltada.")
}

// stopHandler handles the /stop command
func stopHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	if err := manager.Stop(ctx.Interaction.GuildID); err != nil {
		if errors.Is(err, music.ErrNoQueue) {
			return ctx.ReplyEphemeral("❌ No hay una cola de reproducción activa.")
		}
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ %s", capitalize(err.Error())))
	}

	return ctx.Reply("⏹️ Reproducción detenida y cola limpiada.")
}

// queueHandler handles the /queue command
func queueHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	snapshot, err := manager.Queue(ctx.Interaction.GuildID)
	if err != nil {
		return ctx.Reply("📭 La cola está vacía.")
	}

	if snapshot.CurrentSong == nil && len(snapshot.Songs) == 0 {
		return ctx.Reply("📭 La cola está vacía.")
	}

	var sb strings.Builder
	sb.WriteString("📋 **Cola de reproducción**\n\n")

	if snapshot.CurrentSong != nil {
		state := "🎵"
		if snapshot.Paused {
			state = "⏸️"
		}
		sb.WriteString(fmt.Sprintf("%s **Reproduciendo:** [%s](%s) - %s\n\n",
			state,
			snapshot.CurrentSong.Title,
			snapshot.CurrentSong.URL,
			formatDuration(snapshot.CurrentSong.DurationMs)))
	}

	if len(snapshot.Songs) > 0 {
		sb.WriteString("**Siguiente:**\n")
		for i, track := range snapshot.Songs {
			if i >= 10 {
				sb.WriteString(fmt.Sprintf("\n... y %d más", len(snapshot.Songs)-10))
				break
			}
			sb.WriteString(fmt.Sprintf("%d. %s - %s\n",
				i+1, track.Title, formatDuration(track.DurationMs)))
		}
	}

	return ctx.Reply(sb.String())
}

// volumeHandler handles the /volume command. Without a level it reports the
// current volume.
func volumeHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	if ctx.GetOption("level") == nil {
		vol, err := manager.Volume(ctx.Interaction.GuildID)
		if err != nil {
			return ctx.ReplyEphemeral("❌ No hay una cola de reproducción activa.")
		}
		return ctx.Reply(fmt.Sprintf("🔊 Volumen actual: %d%%", vol))
	}

	level := int(ctx.GetIntOption("level"))
	if err := manager.SetVolume(ctx.Interaction.GuildID, level); err != nil {
		if errors.Is(err, music.ErrVolumeRange) {
			return ctx.ReplyEphemeral("❌ El volumen debe estar entre 0 y 100.")
		}
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ %s", capitalize(err.Error())))
	}

	return ctx.Reply(fmt.Sprintf("🔊 Volumen ajustado a %d%%", level))
}

// nowPlayingHandler handles the /nowplaying command
func nowPlayingHandler(ctx *discord.CommandContext) error {
	manager := musicManager()
	if manager == nil {
		return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
	}

	snapshot, err := manager.Queue(ctx.Interaction.GuildID)
	if err != nil || snapshot.CurrentSong == nil {
		return ctx.Reply("🔇 No hay nada reproduciéndose.")
	}

	track := snapshot.CurrentSong
	state := "▶️ Reproduciendo"
	if snapshot.Paused {
		state = "⏸️ Pausado"
	}

	embed := &discordgo.MessageEmbed{
		Color:       0x5865F2,
		Title:       "🎵 Reproduciendo ahora",
		Description: fmt.Sprintf("[%s](%s)", track.Title, track.URL),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Estado",
				Value:  state,
				Inline: true,
			},
			{
				Name:   "Duración",
				Value:  formatDuration(track.DurationMs),
				Inline: true,
			},
			{
				Name:   "Volumen",
				Value:  fmt.Sprintf("%d%%", snapshot.Volume),
				Inline: true,
			},
			{
				Name:   "Pedida por",
				Value:  fmt.Sprintf("<@%s>", track.Requester),
				Inline: true,
			},
		},
	}

	return ctx.ReplyEmbed(embed)
}

// formatDuration formats milliseconds to mm:ss format
func formatDuration(ms int64) string {
	seconds := ms / 1000
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// capitalize uppercases the first rune of a sentinel error message for
// user-facing replies.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
