package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/database"
	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/WardenStudios/WardenBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// ActionResult is the combined outcome of a moderation command: the platform
// action already succeeded by the time this exists, and the log phase either
// assigned a case number or failed independently. A log failure never undoes
// the platform action.
type ActionResult struct {
	Entry      *models.ModLogEntry
	CaseNumber int64
	Logged     bool
	LogErr     error
}

// Record writes the ledger entry for an already-executed platform action and
// fans the case out to the guild's mod-log channel and the telemetry broker.
// Errors are captured in the result instead of being returned.
func Record(session *discordgo.Session, entry models.ModLogEntry) ActionResult {
	logged, err := database.LogModAction(entry)
	if err != nil {
		logger.Error(fmt.Sprintf("Fallo al registrar caso de %s en guild %s: %v", entry.Action, entry.GuildID, err), "ModLog")
		return ActionResult{LogErr: err}
	}

	logger.Info(fmt.Sprintf("Caso #%d (%s) registrado en guild %s", logged.CaseNumber, logged.Action, logged.GuildID), "ModLog")

	go announceCase(session, logged)
	go publishCase(logged)

	return ActionResult{
		Entry:      logged,
		CaseNumber: logged.CaseNumber,
		Logged:     true,
	}
}

// Suffix renders the case-number fragment appended to user-facing replies.
// When logging failed the fragment is empty and the reply stands on its own.
func (r ActionResult) Suffix() string {
	if !r.Logged {
		return ""
	}
	return fmt.Sprintf(" (Caso #%d)", r.CaseNumber)
}

// announceCase posts the case embed to the guild's configured mod-log
// channel, if any.
func announceCase(session *discordgo.Session, entry *models.ModLogEntry) {
	config, err := database.GetGuildConfig(entry.GuildID)
	if err != nil || config.ModLogChannelID == "" {
		return
	}

	if _, err := session.ChannelMessageSendEmbed(config.ModLogChannelID, CaseEmbed(entry)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el caso #%d al canal de logs: %v", entry.CaseNumber, err), "ModLog")
	}
}

// publishCase emits the case to the telemetry broker.
func publishCase(entry *models.ModLogEntry) {
	mc := mqtt.Get()
	if mc == nil || !mc.IsConnected() {
		return
	}

	topic := fmt.Sprintf("warden/moderation/%s/case", entry.GuildID)
	if err := mc.Publish(topic, entry); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el caso #%d por MQTT: %v", entry.CaseNumber, err), "ModLog")
	}
}

// CaseEmbed builds the mod-log embed for a ledger entry.
func CaseEmbed(entry *models.ModLogEntry) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Usuario", Value: fmt.Sprintf("%s (<@%s>)", entry.TargetUsername, entry.TargetID), Inline: true},
		{Name: "Moderador", Value: fmt.Sprintf("%s (<@%s>)", entry.ModeratorUsername, entry.ModeratorID), Inline: true},
	}

	if entry.Reason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Razón", Value: entry.Reason})
	}
	if entry.Action == models.ActionMute && entry.DurationMs > 0 {
		duration := time.Duration(entry.DurationMs) * time.Millisecond
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Duración", Value: duration.String(), Inline: true})
	}
	if entry.Action == models.ActionClear && entry.MessageCount > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Mensajes", Value: fmt.Sprintf("%d", entry.MessageCount), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s Caso #%d | %s", actionEmoji(entry.Action), entry.CaseNumber, strings.ToUpper(string(entry.Action))),
		Color:     actionColor(entry.Action),
		Fields:    fields,
		Timestamp: time.UnixMilli(entry.CreatedAt).Format(time.RFC3339),
	}
}

func actionEmoji(action models.ModAction) string {
	switch action {
	case models.ActionBan:
		return "🔨"
	case models.ActionUnban:
		return "🔓"
	case models.ActionKick:
		return "👢"
	case models.ActionMute:
		return "🔇"
	case models.ActionUnmute:
		return "🔊"
	case models.ActionWarn:
		return "⚠️"
	case models.ActionClear:
		return "🧹"
	}
	return "📋"
}

func actionColor(action models.ModAction) int {
	switch action {
	case models.ActionBan, models.ActionKick:
		return 0xFF0000
	case models.ActionMute, models.ActionWarn:
		return 0xFFA500
	case models.ActionUnban, models.ActionUnmute:
		return 0x00FF00
	case models.ActionClear:
		return 0x3498DB
	}
	return 0x808080
}
