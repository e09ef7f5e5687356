package syncRepo

import (
	"context"
	"fmt"
	"time"

	"carematch/database"
	"carematch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncLogRepo implements SyncLogRepository using MongoDB.
type MongoSyncLogRepo struct {
	coll *mongo.Collection
}

// NewMongoSyncLogRepo creates a new instance of SyncLogRepository using MongoDB.
func NewMongoSyncLogRepo() SyncLogRepository {
	coll := database.Collection("sync_logs")
	return &MongoSyncLogRepo{coll: coll}
}

func (r *MongoSyncLogRepo) Create(entry *models.SyncLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert sync log: %w", err)
	}
	return nil
}

func (r *MongoSyncLogRepo) Update(entry *models.SyncLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": entry.ID}, entry); err != nil {
		return fmt.Errorf("failed to update sync log %s: %w", entry.ID, err)
	}
	return nil
}

func (r *MongoSyncLogRepo) Latest(syncType string) (*models.SyncLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{}
	if syncType != "" {
		filter["sync_type"] = syncType
	}
	opts := options.FindOne().SetSort(bson.M{"started_at": -1})
	var entry models.SyncLog
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to fetch latest sync log: %w", err)
	}
	return &entry, nil
}

func (r *MongoSyncLogRepo) Recent(limit int) ([]models.SyncLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().SetSort(bson.M{"started_at": -1}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	defer cursor.Close(ctx)
	var out []models.SyncLog
	for cursor.Next(ctx) {
		var entry models.SyncLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode sync log: %w", err)
		}
		out = append(out, entry)
	}
	return out, cursor.Err()
}
