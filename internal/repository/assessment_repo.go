package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employercheck/internal/model"
)

// AssessmentRepo is an append-only history of assessments per session
type AssessmentRepo interface {
	Insert(ctx context.Context, a *model.Assessment) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.Assessment, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates an assessment repository with its indexes
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	repo := &assessmentRepo{
		collection: db.Collection("assessments"),
	}
	createIndex(context.Background(), repo.collection, bson.D{
		{Key: "sessionId", Value: 1},
		{Key: "createdAt", Value: -1},
	}, false)
	return repo
}

func (r *assessmentRepo) Insert(ctx context.Context, a *model.Assessment) error {
	_, err := r.collection.InsertOne(ctx, a)
	return err
}

// ListBySession returns the newest assessments first
func (r *assessmentRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.Assessment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []*model.Assessment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
