package database

import (
	"context"
	"errors"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrGuildConfigManagerNotInitialized = errors.New("guild config data manager not initialized")

func getGuildConfigManager() (*DataManager[models.GuildConfig], error) {
	if GlobalGuildConfigDM == nil {
		return nil, ErrGuildConfigManagerNotInitialized
	}
	return GlobalGuildConfigDM, nil
}

// GetGuildConfig returns the stored config for a guild, or the defaults if
// the guild was never configured.
func GetGuildConfig(guildID string) (*models.GuildConfig, error) {
	dm, err := getGuildConfigManager()
	if err != nil {
		return nil, err
	}

	record, err := dm.Get(bson.M{"guildId": guildID})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &models.GuildConfig{GuildID: guildID}, nil
	}
	return record, nil
}

// SetGuildConfig upserts the config for a guild. The unique index on guildId
// keeps this a single-row-per-guild operation.
func SetGuildConfig(config models.GuildConfig) (*models.GuildConfig, error) {
	dm, err := getGuildConfigManager()
	if err != nil {
		return nil, err
	}

	return dm.Set(bson.M{"guildId": config.GuildID}, config)
}

// DeleteGuildConfig removes a guild's config, restoring the defaults.
func DeleteGuildConfig(guildID string) error {
	dm, err := getGuildConfigManager()
	if err != nil {
		return err
	}
	return dm.Delete(bson.M{"guildId": guildID})
}

// EnsureGuildConfigIndexes creates the unique guildId index enforcing one
// config document per guild.
func EnsureGuildConfigIndexes() error {
	db := Get()
	if db == nil || !db.Connected() {
		return ErrDatabaseUnavailable
	}
	col := db.GetCollection("guild_configs")
	if col == nil {
		return ErrDatabaseUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guildId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
