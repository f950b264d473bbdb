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

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

func (r *ProfileRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: "text"}, {Key: "headline", Value: "text"}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = result.InsertedID.(bson.ObjectID)
	return profile, nil
}

// Upsert inserts the default profile unless one already exists. The unique
// index on userId guarantees at most one side-effecting write per user even
// under concurrent first requests.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{
		"$setOnInsert": profile,
	}

	var stored models.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": profile.UserID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID string, set bson.M) (*models.UserProfile, error) {
	set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) AddSkill(ctx context.Context, userID string, skill models.Skill) (*models.UserProfile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{
		"$push": bson.M{"skills": skill},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	var profile models.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) RemoveSkill(ctx context.Context, userID string, skillID bson.ObjectID) (*models.UserProfile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{
		"$pull": bson.M{"skills": bson.M{"_id": skillID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	var profile models.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// IncrementStat bumps one counter inside the embedded stats document.
func (r *ProfileRepository) IncrementStat(ctx context.Context, userID, stat string, delta int) error {
	update := bson.M{
		"$inc": bson.M{"stats." + stat: delta},
		"$set": bson.M{"stats.lastActive": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	return err
}

// Search finds profiles whose name or headline matches the query string.
func (r *ProfileRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*models.UserProfile, int64, error) {
	filter := bson.M{}
	if query != "" {
		filter = bson.M{"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"headline": bson.M{"$regex": query, "$options": "i"}},
		}}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find()
	opts.SetSort(bson.D{{Key: "stats.lastActive", Value: -1}})
	opts.SetSkip(int64((page - 1) * pageSize))
	opts.SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var profiles []*models.UserProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, 0, err
	}
	return profiles, count, nil
}
