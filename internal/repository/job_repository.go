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

type JobRepository struct {
	collection *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{
		collection: db.Collection("jobs"),
	}
}

func (r *JobRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "recruiterId", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	job.IsActive = true

	result, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return nil, err
	}
	job.ID = result.InsertedID.(bson.ObjectID)
	return job, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var job models.Job
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "isActive": true}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// JobFilter narrows the public job listing.
type JobFilter struct {
	Category string
	Location string
	Search   string
	Page     int
	PageSize int
}

func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]*models.Job, int64, error) {
	query := bson.M{"isActive": true}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": filter.Location, "$options": "i"}
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"company": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find()
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	opts.SetSkip(int64((filter.Page - 1) * filter.PageSize))
	opts.SetLimit(int64(filter.PageSize))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var jobs []*models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, 0, err
	}
	return jobs, count, nil
}

// ListActive returns every active posting, for match scoring.
func (r *JobRepository) ListActive(ctx context.Context) ([]*models.Job, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []*models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) Categories(ctx context.Context) ([]string, error) {
	result := r.collection.Distinct(ctx, "category", bson.M{"isActive": true})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var categories []string
	if err := result.Decode(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *JobRepository) Update(ctx context.Context, id bson.ObjectID, set bson.M) (*models.Job, error) {
	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job models.Job
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IncrementStat bumps one of the aggregate counters (views, applications, saves).
func (r *JobRepository) IncrementStat(ctx context.Context, id bson.ObjectID, stat string, delta int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stats." + stat: delta}},
	)
	return err
}
