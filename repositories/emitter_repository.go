package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seedtalent/agency_backend/config"
	"github.com/seedtalent/agency_backend/models"
)

var ErrEmitterNotFound = errors.New("emitter not found")

// EmitterRepository wraps the emitters and hoursHistory collections.
type EmitterRepository struct {
	collection *mongo.Collection
	history    *mongo.Collection
}

func NewEmitterRepository(db *mongo.Client) *EmitterRepository {
	return &EmitterRepository{
		collection: config.GetCollection(db, "emitters"),
		history:    config.GetCollection(db, "hoursHistory"),
	}
}

// Create inserts a new emitter. The recruiter and cohort month are fixed for
// the emitter's lifetime.
func (r *EmitterRepository) Create(emitter *models.Emitter) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, emitter)
	if err != nil {
		return err
	}

	emitter.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FetchEmitters returns emitters matching the given filter, newest first.
func (r *EmitterRepository) FetchEmitters(filter bson.M) ([]models.Emitter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	emitters := []models.Emitter{}
	if err := cursor.All(ctx, &emitters); err != nil {
		return nil, err
	}
	return emitters, nil
}

// FindByID fetches a single emitter.
func (r *EmitterRepository) FindByID(id primitive.ObjectID) (*models.Emitter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var emitter models.Emitter
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&emitter)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEmitterNotFound
		}
		return nil, err
	}
	return &emitter, nil
}

// UpdateFields applies a partial update to an emitter. RecruiterID and month
// are never part of the update document; both are immutable.
func (r *EmitterRepository) UpdateFields(id primitive.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrEmitterNotFound
	}
	return nil
}

// UpdateHours sets an emitter's monthly hours and appends the audit record in
// the same call. History entries are append-only.
func (r *EmitterRepository) UpdateHours(id primitive.ObjectID, oldHours, newHours float64, adminID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"hours": newHours, "updatedAt": now},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrEmitterNotFound
	}

	entry := models.HoursHistoryEntry{
		EmitterID: id,
		OldHours:  oldHours,
		NewHours:  newHours,
		AdminID:   adminID,
		Timestamp: now,
	}
	_, err = r.history.InsertOne(ctx, entry)
	return err
}

// SetStatus toggles an emitter between active and paused.
func (r *EmitterRepository) SetStatus(id primitive.ObjectID, status string) error {
	return r.UpdateFields(id, bson.M{"status": status})
}

// FetchHoursHistory returns the audit trail for one emitter, newest first.
func (r *EmitterRepository) FetchHoursHistory(emitterID primitive.ObjectID) ([]models.HoursHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.history.Find(ctx, bson.M{"emitterId": emitterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.HoursHistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
