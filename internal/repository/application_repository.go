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

type ApplicationRepository struct {
	collection *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		collection: db.Collection("job_applications"),
	}
}

func (r *ApplicationRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "appliedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "userId", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	now := time.Now()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	if app.Communications == nil {
		app.Communications = []models.CommunicationEntry{}
	}

	result, err := r.collection.InsertOne(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = result.InsertedID.(bson.ObjectID)
	return app, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var app models.JobApplication
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.JobApplication, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var app models.JobApplication
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "userId": userID}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// FindByJobAndUser backs the apply deduplication policies.
func (r *ApplicationRepository) FindByJobAndUser(ctx context.Context, jobID bson.ObjectID, userID string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.collection.FindOne(ctx, bson.M{"jobId": jobID, "userId": userID}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]*models.JobApplication, error) {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "appliedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []*models.JobApplication
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, status models.ApplicationStatus) (*models.JobApplication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	var app models.JobApplication
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// Refresh re-stamps an existing application under the update apply policy.
func (r *ApplicationRepository) Refresh(ctx context.Context, id bson.ObjectID, coverLetter string, matchScore float64) (*models.JobApplication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{"$set": bson.M{
		"coverLetter": coverLetter,
		"matchScore":  matchScore,
		"status":      models.StatusPending,
		"appliedAt":   time.Now(),
		"updatedAt":   time.Now(),
	}}

	var app models.JobApplication
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) AddCommunication(ctx context.Context, id bson.ObjectID, entry models.CommunicationEntry) (*models.JobApplication, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{
		"$push": bson.M{"communications": entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	var app models.JobApplication
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// CountByStatus aggregates the caller's applications per status for the
// job-seeker stats endpoint.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"userId": userID}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}
