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

type CVRepository struct {
	collection *mongo.Collection
}

func NewCVRepository(db *mongo.Database) *CVRepository {
	return &CVRepository{
		collection: db.Collection("cvs"),
	}
}

func (r *CVRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "uploadDate", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *CVRepository) Create(ctx context.Context, cv *models.CV) (*models.CV, error) {
	result, err := r.collection.InsertOne(ctx, cv)
	if err != nil {
		return nil, err
	}
	cv.ID = result.InsertedID.(bson.ObjectID)
	return cv, nil
}

// FindByIDAndOwner is the owner-scoped lookup used by every per-CV endpoint.
// A CV owned by someone else is reported as absent, not as forbidden.
func (r *CVRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.CV, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var cv models.CV
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "userId": userID}).Decode(&cv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &cv, nil
}

func (r *CVRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.CV, error) {
	var cv models.CV
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &cv, nil
}

// ListActiveByOwner returns the caller's active CVs, newest upload first.
func (r *CVRepository) ListActiveByOwner(ctx context.Context, userID string) ([]*models.CV, error) {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "uploadDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cvs []*models.CV
	if err := cursor.All(ctx, &cvs); err != nil {
		return nil, err
	}
	return cvs, nil
}

// SetAnalysisStatus moves the task through its visible lifecycle.
func (r *CVRepository) SetAnalysisStatus(ctx context.Context, id bson.ObjectID, status models.AnalysisStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"analysisStatus": status}},
	)
	return err
}

// MarkAnalyzed stores the analyzer's result and completes the task.
func (r *CVRepository) MarkAnalyzed(ctx context.Context, id bson.ObjectID, result *models.AnalysisResult) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"analysisResult": result,
			"isAnalyzed":     true,
			"analysisStatus": models.AnalysisCompleted,
		}},
	)
	return err
}

// MarkAnalysisFailed records a terminal analyzer failure. The CV is kept, the
// completion flag still flips, and only the analysis date is stamped so the
// analysis endpoint keeps reporting "not available".
func (r *CVRepository) MarkAnalysisFailed(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"isAnalyzed":                  true,
			"analysisStatus":              models.AnalysisFailed,
			"analysisResult.analysisDate": time.Now(),
		}},
	)
	return err
}

// SoftDelete flips the active flag; the record itself is never removed.
func (r *CVRepository) SoftDelete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false}},
	)
	return err
}
