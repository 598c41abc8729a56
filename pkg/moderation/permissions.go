// Package moderation implements the eligibility rules and the logging
// pipeline shared by all moderation commands.
package moderation

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Eligibility errors carry the user-facing message directly.
var (
	ErrTargetIsOwner     = errors.New("no puedes moderar al dueño del servidor")
	ErrTargetIsSelf      = errors.New("no puedes moderarte a ti mismo")
	ErrTargetIsBot       = errors.New("no puedo moderarme a mí mismo")
	ErrExecutorHierarchy = errors.New("el rol más alto del usuario es igual o superior al tuyo")
	ErrBotHierarchy      = errors.New("el rol más alto del usuario es igual o superior al mío")
)

var (
	ErrInvalidDuration = errors.New("duración inválida, usa el formato <número><s|m|h|d|w> (ej: 10m, 2h, 7d)")

	// MaxMuteDuration is the longest timeout the platform accepts.
	MaxMuteDuration = 28 * 24 * time.Hour
)

var durationPattern = regexp.MustCompile(`^(\d+)(s|m|h|d|w)$`)

// HighestRolePosition returns the highest role position among the member's
// roles. Members with no roles sit at position 0 (@everyone).
func HighestRolePosition(guild *discordgo.Guild, roleIDs []string) int {
	highest := 0
	for _, roleID := range roleIDs {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > highest {
				highest = role.Position
			}
		}
	}
	return highest
}

// CanModerate decides whether executor may act on target in the given guild.
// The guild owner, the executor themselves and the bot are never valid
// targets, and both the executor and the bot must outrank the target.
func CanModerate(guild *discordgo.Guild, executor, target, bot *discordgo.Member) error {
	if target.User.ID == guild.OwnerID {
		return ErrTargetIsOwner
	}
	if target.User.ID == executor.User.ID {
		return ErrTargetIsSelf
	}
	if target.User.ID == bot.User.ID {
		return ErrTargetIsBot
	}

	targetPos := HighestRolePosition(guild, target.Roles)
	if HighestRolePosition(guild, executor.Roles) <= targetPos {
		return ErrExecutorHierarchy
	}
	if HighestRolePosition(guild, bot.Roles) <= targetPos {
		return ErrBotHierarchy
	}
	return nil
}

// ParseDuration parses a compact duration like "10m", "2h", "7d" or "1w".
func ParseDuration(input string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(input)
	if match == nil {
		return 0, ErrInvalidDuration
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidDuration
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}

	return time.Duration(value) * unit, nil
}
