package database

import (
	"context"
	"fmt"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const warningCollectionName = "warnings"

func warningCollection() (*mongo.Collection, error) {
	db := Get()
	if db == nil || !db.Connected() {
		return nil, ErrDatabaseUnavailable
	}
	col := db.GetCollection(warningCollectionName)
	if col == nil {
		return nil, ErrDatabaseUnavailable
	}
	return col, nil
}

// CreateWarning stores a new warning and returns its id. The reason is
// mandatory; warnings carry no case number.
func CreateWarning(guildID, userID, moderatorID, reason string) (string, error) {
	if guildID == "" || userID == "" || moderatorID == "" {
		return "", models.ErrMissingIdentifier
	}
	if reason == "" {
		return "", models.ErrEmptyReason
	}

	col, err := warningCollection()
	if err != nil {
		return "", err
	}

	warning := models.Warning{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   time.Now().UnixMilli(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := col.InsertOne(ctx, warning); err != nil {
		return "", err
	}
	return warning.ID, nil
}

// GetUserWarnings returns every warning for a (guild, user) pair, newest
// first.
func GetUserWarnings(guildID, userID string) ([]*models.Warning, error) {
	col, err := warningCollection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"guildId": guildID, "userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var warnings []*models.Warning
	for cursor.Next(ctx) {
		var w models.Warning
		if err := cursor.Decode(&w); err != nil {
			continue
		}
		warnings = append(warnings, &w)
	}
	return warnings, cursor.Err()
}

// GetGuildWarnings returns the most recent warnings for a guild across all
// users, newest first. A limit of 0 or less returns everything.
func GetGuildWarnings(guildID string, limit int64) ([]*models.Warning, error) {
	col, err := warningCollection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := col.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var warnings []*models.Warning
	for cursor.Next(ctx) {
		var w models.Warning
		if err := cursor.Decode(&w); err != nil {
			continue
		}
		warnings = append(warnings, &w)
	}
	return warnings, cursor.Err()
}

// CountUserWarnings returns the number of warnings for a (guild, user) pair.
// It always matches the length of GetUserWarnings for the same keys.
func CountUserWarnings(guildID, userID string) (int64, error) {
	col, err := warningCollection()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return col.CountDocuments(ctx, bson.M{"guildId": guildID, "userId": userID})
}

// RemoveWarning deletes a single warning by id. Deleting an absent id is a
// no-op.
func RemoveWarning(warningID string) error {
	col, err := warningCollection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = col.DeleteOne(ctx, bson.M{"_id": warningID})
	return err
}

// ClearUserWarnings deletes every warning for a (guild, user) pair and
// returns how many were actually removed, as reported by the single bulk
// delete.
func ClearUserWarnings(guildID, userID string) (int64, error) {
	col, err := warningCollection()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := col.DeleteMany(ctx, bson.M{"guildId": guildID, "userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWarningIndexes creates the lookup indexes for the warnings
// collection.
func EnsureWarningIndexes() error {
	col, err := warningCollection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Fallo al crear índices de warnings: %v", err), "Warnings")
		return err
	}

	logger.System("Índices de warnings verificados.", "Warnings")
	return nil
}
