package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/MehdiBenameur/skyhire/internal/models"
)

type SavedJobRepository struct {
	collection *mongo.Collection
}

func NewSavedJobRepository(db *mongo.Database) *SavedJobRepository {
	return &SavedJobRepository{
		collection: db.Collection("saved_jobs"),
	}
}

func (r *SavedJobRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "jobId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Toggle saves the job for the user, or removes the bookmark when it already
// exists. Returns true when the job ends up saved.
func (r *SavedJobRepository) Toggle(ctx context.Context, userID string, jobID bson.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "jobId": jobID})
	if err != nil {
		return false, err
	}
	if result.DeletedCount > 0 {
		return false, nil
	}

	_, err = r.collection.InsertOne(ctx, &models.SavedJob{
		UserID:  userID,
		JobID:   jobID,
		SavedAt: time.Now(),
	})
	if err != nil {
		// A concurrent save can race the delete-then-insert; the unique
		// index settles it and the job is saved either way.
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SavedJobRepository) ListByUser(ctx context.Context, userID string) ([]*models.SavedJob, error) {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "savedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var saved []*models.SavedJob
	if err := cursor.All(ctx, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SavedJobRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}
	return count, nil
}
