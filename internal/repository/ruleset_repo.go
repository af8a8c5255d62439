package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"employercheck/internal/model"
)

// RulesetRepo is the ruleset store, one document per jurisdiction code
type RulesetRepo interface {
	Get(ctx context.Context, jurisdiction string) (*model.Ruleset, error)
	List(ctx context.Context) ([]*model.Ruleset, error)
	Upsert(ctx context.Context, rs *model.Ruleset) error
	Delete(ctx context.Context, jurisdiction string) (bool, error)
}

type rulesetRepo struct {
	collection *mongo.Collection
}

// NewRulesetRepo creates a ruleset repository
func NewRulesetRepo(db *mongo.Database) RulesetRepo {
	return &rulesetRepo{
		collection: db.Collection("rulesets"),
	}
}

// Get returns nil, nil when no ruleset is on file
func (r *rulesetRepo) Get(ctx context.Context, jurisdiction string) (*model.Ruleset, error) {
	var rs model.Ruleset
	err := r.collection.FindOne(ctx, bson.M{"_id": jurisdiction}).Decode(&rs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

func (r *rulesetRepo) List(ctx context.Context) ([]*model.Ruleset, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rulesets := []*model.Ruleset{}
	if err := cursor.All(ctx, &rulesets); err != nil {
		return nil, err
	}
	return rulesets, nil
}

func (r *rulesetRepo) Upsert(ctx context.Context, rs *model.Ruleset) error {
	rs.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rs.Jurisdiction}, rs, opts)
	return err
}

func (r *rulesetRepo) Delete(ctx context.Context, jurisdiction string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": jurisdiction})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
