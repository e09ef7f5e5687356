package clientRepo

import (
	"context"
	"fmt"
	"time"

	"carematch/database"
	"carematch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoClientRepo() ClientRepository {
	coll := database.Collection("client_responses")
	return &MongoClientRepo{coll: coll}
}

func (r *MongoClientRepo) GetByID(id string) (*models.ClientResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var c models.ClientResponse
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to fetch client response %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoClientRepo) Create(c *models.ClientResponse) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to insert client response: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) patch(id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	update["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update client response %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoClientRepo) RecordSuggestions(id string, topID, topName string, topScore float64, alts models.AlternativeSummary) error {
	return r.patch(id, bson.M{
		"algorithm_suggested_therapist_id":    topID,
		"algorithm_suggested_therapist_name":  topName,
		"algorithm_suggested_therapist_score": topScore,
		"alternative_therapists_offered":      alts,
	})
}

func (r *MongoClientRepo) RecordSelection(id string, therapistID, therapistEmail, therapistName string) error {
	update := bson.M{
		"match_status":            "matched",
		"matched_therapist_email": therapistEmail,
		"matched_therapist_name":  therapistName,
	}
	if therapistID != "" {
		update["matched_therapist_id"] = therapistID
	}
	return r.patch(id, update)
}

func (r *MongoClientRepo) RecordAssignment(id string, t *models.Therapist) error {
	if t == nil {
		return nil
	}
	return r.patch(id, bson.M{
		"match_status":            "matched",
		"matched_therapist_id":    t.ID,
		"matched_therapist_email": t.Email,
		"matched_therapist_name":  t.Name,
	})
}

func (r *MongoClientRepo) RecordBooking(id string, t *models.Therapist, slotStart, slotEnd *time.Time) error {
	update := bson.M{"match_status": "booked"}
	if t != nil {
		update["matched_therapist_id"] = t.ID
		update["matched_therapist_email"] = t.Email
		update["matched_therapist_name"] = t.Name
	}
	if slotStart != nil {
		update["matched_slot_start"] = slotStart.UTC()
	}
	if slotEnd != nil {
		update["matched_slot_end"] = slotEnd.UTC()
	}
	return r.patch(id, update)
}
