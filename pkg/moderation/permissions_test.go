package moderation

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func testGuild() *discordgo.Guild {
	return &discordgo.Guild{
		ID:      "guild-1",
		OwnerID: "owner-1",
		Roles: []*discordgo.Role{
			{ID: "role-low", Position: 1},
			{ID: "role-mid", Position: 5},
			{ID: "role-high", Position: 10},
		},
	}
}

func member(userID string, roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: userID},
		Roles: roles,
	}
}

func TestHighestRolePosition(t *testing.T) {
	guild := testGuild()

	if got := HighestRolePosition(guild, []string{"role-low", "role-high"}); got != 10 {
		t.Errorf("HighestRolePosition() = %d, want 10", got)
	}
	if got := HighestRolePosition(guild, nil); got != 0 {
		t.Errorf("HighestRolePosition() with no roles = %d, want 0", got)
	}
	if got := HighestRolePosition(guild, []string{"unknown-role"}); got != 0 {
		t.Errorf("HighestRolePosition() with unknown role = %d, want 0", got)
	}
}

func TestCanModerate(t *testing.T) {
	guild := testGuild()
	bot := member("bot-1", "role-high")

	tests := []struct {
		name     string
		executor *discordgo.Member
		target   *discordgo.Member
		wantErr  error
	}{
		{
			name:     "valid hierarchy",
			executor: member("mod-1", "role-mid"),
			target:   member("user-1", "role-low"),
			wantErr:  nil,
		},
		{
			name:     "target is owner",
			executor: member("mod-1", "role-high"),
			target:   member("owner-1", "role-low"),
			wantErr:  ErrTargetIsOwner,
		},
		{
			name:     "target is self",
			executor: member("mod-1", "role-mid"),
			target:   member("mod-1", "role-low"),
			wantErr:  ErrTargetIsSelf,
		},
		{
			name:     "target is bot",
			executor: member("mod-1", "role-mid"),
			target:   member("bot-1", "role-low"),
			wantErr:  ErrTargetIsBot,
		},
		{
			name:     "executor outranked",
			executor: member("mod-1", "role-low"),
			target:   member("user-1", "role-mid"),
			wantErr:  ErrExecutorHierarchy,
		},
		{
			name:     "equal rank rejected",
			executor: member("mod-1", "role-mid"),
			target:   member("user-1", "role-mid"),
			wantErr:  ErrExecutorHierarchy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanModerate(guild, tt.executor, tt.target, bot); err != tt.wantErr {
				t.Errorf("CanModerate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanModerateBotOutranked(t *testing.T) {
	guild := testGuild()
	bot := member("bot-1", "role-low")
	executor := member("mod-1", "role-high")
	target := member("user-1", "role-mid")

	if err := CanModerate(guild, executor, target, bot); err != ErrBotHierarchy {
		t.Errorf("CanModerate() = %v, want ErrBotHierarchy", err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if err != nil {
				t.Fatalf("ParseDuration(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDurationRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "10", "m", "10x", "-5m", "10 m", "1.5h"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseDuration(input); err != ErrInvalidDuration {
				t.Errorf("ParseDuration(%q) error = %v, want ErrInvalidDuration", input, err)
			}
		})
	}
}

func TestActionResultSuffix(t *testing.T) {
	r := ActionResult{Logged: true, CaseNumber: 7}
	if got := r.Suffix(); got != " (Caso #7)" {
		t.Errorf("Suffix() = %q", got)
	}

	r = ActionResult{Logged: false}
	if got := r.Suffix(); got != "" {
		t.Errorf("Suffix() on unlogged result = %q, want empty", got)
	}
}
