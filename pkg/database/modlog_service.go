package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WardenStudios/WardenBotGo/pkg/logger"
	"github.com/WardenStudios/WardenBotGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	modLogCollectionName      = "mod_logs"
	caseCounterCollectionName = "case_counters"

	// DefaultModLogLimit is the page size used when the caller does not
	// specify one.
	DefaultModLogLimit = 50

	// caseInsertRetries bounds the retry loop when an insert collides with
	// the unique (guildId, caseNumber) index.
	caseInsertRetries = 5
)

var (
	ErrDatabaseUnavailable = errors.New("base de datos no disponible")
	ErrCaseNumberExhausted = errors.New("no se pudo asignar un número de caso")
)

// caseCounter is the per-guild counter document behind the atomic
// increment-and-get used to assign case numbers.
type caseCounter struct {
	GuildID string `bson:"_id"`
	Seq     int64  `bson:"seq"`
}

func modLogCollection() (*mongo.Collection, error) {
	db := Get()
	if db == nil || !db.Connected() {
		return nil, ErrDatabaseUnavailable
	}
	col := db.GetCollection(modLogCollectionName)
	if col == nil {
		return nil, ErrDatabaseUnavailable
	}
	return col, nil
}

func caseCounterCollection() (*mongo.Collection, error) {
	db := Get()
	if db == nil || !db.Connected() {
		return nil, ErrDatabaseUnavailable
	}
	col := db.GetCollection(caseCounterCollectionName)
	if col == nil {
		return nil, ErrDatabaseUnavailable
	}
	return col, nil
}

// NextCaseNumber atomically increments and returns the case counter for a
// guild. Concurrent callers each receive a distinct, consecutive value; the
// counter document is created on first use.
func NextCaseNumber(guildID string) (int64, error) {
	col, err := caseCounterCollection()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter caseCounter
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": guildID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}

// LogModAction appends an entry to the guild's moderation ledger, assigning
// the next case number. The entry must arrive without CaseNumber, ID or
// CreatedAt set. Entries are never updated or deleted afterwards.
//
// Case numbers come from the atomic counter; the unique index on
// (guildId, caseNumber) acts as a backstop, and a duplicate-key conflict
// triggers a fresh allocation and reinsert.
func LogModAction(entry models.ModLogEntry) (*models.ModLogEntry, error) {
	if err := entry.ValidatePayload(); err != nil {
		return nil, err
	}

	col, err := modLogCollection()
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < caseInsertRetries; attempt++ {
		caseNumber, err := NextCaseNumber(entry.GuildID)
		if err != nil {
			return nil, err
		}

		entry.ID = uuid.NewString()
		entry.CaseNumber = caseNumber
		entry.CreatedAt = time.Now().UnixMilli()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = col.InsertOne(ctx, entry)
		cancel()

		if err == nil {
			return &entry, nil
		}

		if mongo.IsDuplicateKeyError(err) {
			logger.Warn(fmt.Sprintf("Conflicto de número de caso #%d en guild %s, reintentando...", caseNumber, entry.GuildID), "ModLog")
			continue
		}
		return nil, err
	}

	return nil, ErrCaseNumberExhausted
}

// GetGuildModLogs returns the most recent entries for a guild, newest first.
// A limit of 0 or less falls back to DefaultModLogLimit.
func GetGuildModLogs(guildID string, limit int64) ([]*models.ModLogEntry, error) {
	if limit <= 0 {
		limit = DefaultModLogLimit
	}
	return findModLogs(bson.M{"guildId": guildID}, limit)
}

// GetCase looks up a single entry by its guild-scoped case number. A case
// number that was never assigned yields (nil, nil), not an error.
func GetCase(guildID string, caseNumber int64) (*models.ModLogEntry, error) {
	col, err := modLogCollection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var entry models.ModLogEntry
	err = col.FindOne(ctx, bson.M{"guildId": guildID, "caseNumber": caseNumber}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetUserModLogs returns the entries targeting a user in a guild, newest
// first. A limit of 0 or less returns all of them.
func GetUserModLogs(guildID, targetID string, limit int64) ([]*models.ModLogEntry, error) {
	return findModLogs(bson.M{"guildId": guildID, "targetId": targetID}, limit)
}

func findModLogs(query bson.M, limit int64) ([]*models.ModLogEntry, error) {
	col, err := modLogCollection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "caseNumber", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var entries []*models.ModLogEntry
	for cursor.Next(ctx) {
		var entry models.ModLogEntry
		if err := cursor.Decode(&entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, cursor.Err()
}

// EnsureModLogIndexes creates the indexes the ledger depends on. The unique
// compound index doubles as the last line of defense against duplicate case
// numbers.
func EnsureModLogIndexes() error {
	col, err := modLogCollection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "guildId", Value: 1}, {Key: "caseNumber", Value: -1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "targetId", Value: 1}, {Key: "caseNumber", Value: -1}},
		},
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Fallo al crear índices de mod_logs: %v", err), "ModLog")
		return err
	}

	logger.System("Índices de mod_logs verificados.", "ModLog")
	return nil
}
