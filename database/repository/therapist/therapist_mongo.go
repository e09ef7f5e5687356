package therapistRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"carematch/database"
	"carematch/models"
	"carematch/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTherapistRepo implements TherapistRepository using MongoDB.
type MongoTherapistRepo struct {
	coll *mongo.Collection
}

// NewMongoTherapistRepo creates a new instance of TherapistRepository using MongoDB.
func NewMongoTherapistRepo() TherapistRepository {
	coll := database.Collection("therapists")
	return &MongoTherapistRepo{coll: coll}
}

func acceptingFilter() bson.M {
	return bson.M{
		"accepting_new_clients": bson.M{"$regex": utils.TruthyPattern(), "$options": "i"},
		"max_caseload":          bson.M{"$gt": 0},
	}
}

func (r *MongoTherapistRepo) GetByID(id string) (*models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var t models.Therapist
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to fetch therapist with id %s: %w", id, err)
	}
	return &t, nil
}

func (r *MongoTherapistRepo) GetByEmail(email string) (*models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}}
	var t models.Therapist
	if err := r.coll.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to fetch therapist with email %s: %w", email, err)
	}
	return &t, nil
}

func (r *MongoTherapistRepo) GetByName(name string) (*models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}
	var t models.Therapist
	if err := r.coll.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to fetch therapist named %s: %w", name, err)
	}
	return &t, nil
}

func (r *MongoTherapistRepo) SearchByName(fragment string, limit int) ([]models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	filter := bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(fragment), "$options": "i"}}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.M{"name": 1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search therapists by name %q: %w", fragment, err)
	}
	defer cursor.Close(ctx)
	return decodeAll(ctx, cursor)
}

func (r *MongoTherapistRepo) FindEligible(filter EligibilityFilter) ([]models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	query := acceptingFilter()
	query["program"] = bson.M{"$in": filter.Programs}
	query["states_array"] = filter.State
	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible therapists for %s: %w", filter.State, err)
	}
	defer cursor.Close(ctx)
	return decodeAll(ctx, cursor)
}

func (r *MongoTherapistRepo) SearchEligible(filter EligibilityFilter, query string, limit int) ([]models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q := acceptingFilter()
	q["program"] = bson.M{"$in": filter.Programs}
	q["states_array"] = filter.State
	if query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
		q["$or"] = []bson.M{{"name": pattern}, {"email": pattern}}
	}
	opts := options.Find().SetSort(bson.M{"name": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search eligible therapists: %w", err)
	}
	defer cursor.Close(ctx)
	return decodeAll(ctx, cursor)
}

func (r *MongoTherapistRepo) ListAccepting(programs []string, limit int) ([]models.Therapist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	query := acceptingFilter()
	if len(programs) > 0 {
		query["program"] = bson.M{"$in": programs}
	}
	opts := options.Find().SetSort(bson.M{"name": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepting therapists: %w", err)
	}
	defer cursor.Close(ctx)
	return decodeAll(ctx, cursor)
}

func (r *MongoTherapistRepo) AvailableStates(programs []string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	match := acceptingFilter()
	if len(programs) > 0 {
		match["program"] = bson.M{"$in": programs}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$states_array"}},
		{{Key: "$group", Value: bson.M{"_id": "$states_array", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate available states: %w", err)
	}
	defer cursor.Close(ctx)
	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			State string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode state count: %w", err)
		}
		counts[row.State] = row.Count
	}
	return counts, cursor.Err()
}

func (r *MongoTherapistRepo) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoTherapistRepo) Upsert(t *models.Therapist) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	t.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": t.ID}, t, opts)
	if err != nil {
		return false, fmt.Errorf("failed to upsert therapist %s: %w", t.ID, err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoTherapistRepo) ReplaceAll(ts []models.Therapist) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear therapist collection: %w", err)
	}
	if len(ts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ts))
	now := time.Now().UTC()
	for i := range ts {
		ts[i].UpdatedAt = now
		docs = append(docs, ts[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert therapist roster: %w", err)
	}
	return nil
}

func (r *MongoTherapistRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "program", Value: 1}, {Key: "states_array", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create therapist indexes: %w", err)
	}
	return nil
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]models.Therapist, error) {
	var out []models.Therapist
	for cursor.Next(ctx) {
		var t models.Therapist
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode therapist: %w", err)
		}
		out = append(out, t)
	}
	return out, cursor.Err()
}
