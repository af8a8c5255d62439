package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employercheck/internal/model"
)

// SessionRepo stores logical interview sessions. Repeated submissions with
// the same idempotency key attach to one session.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// FindOrCreate returns the session for key, creating it on first use.
	// created is false when an existing session was reused. An empty key
	// always creates a new session.
	FindOrCreate(ctx context.Context, key string) (session *model.Session, created bool, err error)
	RecordEvaluation(ctx context.Context, id, jurisdiction string, at time.Time) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a session repository with its indexes
func NewSessionRepo(db *mongo.Database) SessionRepo {
	repo := &sessionRepo{
		collection: db.Collection("sessions"),
	}
	createIndex(context.Background(), repo.collection, bson.D{{Key: "idempotencyKey", Value: 1}}, true)
	return repo
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindOrCreate(ctx context.Context, key string) (*model.Session, bool, error) {
	now := time.Now().UTC()
	if key == "" {
		s := &model.Session{ID: uuid.NewString(), CreatedAt: now}
		if _, err := r.collection.InsertOne(ctx, s); err != nil {
			return nil, false, err
		}
		return s, true, nil
	}

	id := uuid.NewString()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":             id,
		"idempotencyKey":  key,
		"evaluationCount": 0,
		"createdAt":       now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var s model.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"idempotencyKey": key}, update, opts).Decode(&s)
	if mongo.IsDuplicateKeyError(err) {
		// lost an upsert race on the unique index; the winner's row is there now
		err = r.collection.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&s)
	}
	if err != nil {
		return nil, false, err
	}
	return &s, s.ID == id, nil
}

func (r *sessionRepo) RecordEvaluation(ctx context.Context, id, jurisdiction string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"evaluationCount": 1},
			"$set": bson.M{"jurisdiction": jurisdiction, "lastEvaluatedAt": at},
		},
	)
	return err
}
