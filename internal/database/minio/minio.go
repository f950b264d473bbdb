package minio

import (
	"context"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MehdiBenameur/skyhire/internal/config"
)

// Store wraps the MinIO client for the CV bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// Connect initializes the MinIO client and ensures the CV bucket exists.
func Connect(cfg *config.MinIOConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Printf("Error initializing MinIO client: %v", err)
		return nil, err
	}

	exists, err := client.BucketExists(context.Background(), cfg.CVBucket)
	if err != nil {
		log.Printf("Error checking if bucket %s exists: %v", cfg.CVBucket, err)
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.CVBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("Error creating bucket %s: %v", cfg.CVBucket, err)
			return nil, err
		}
		log.Printf("Created bucket: %s", cfg.CVBucket)
	}

	log.Println("Successfully initialized MinIO client")
	return &Store{client: client, bucket: cfg.CVBucket}, nil
}

// Upload streams the reader into the CV bucket.
func (s *Store) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	return s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
}

// Get opens the stored object for reading.
func (s *Store) Get(ctx context.Context, objectName string) (*minio.Object, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		log.Printf("Error getting object from MinIO: %v", err)
		return nil, err
	}
	return object, nil
}

// Delete removes the stored object. Removing an object that is already gone
// succeeds, which keeps CV deletion idempotent.
func (s *Store) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		log.Printf("Error deleting object from MinIO: %v", err)
		return err
	}
	return nil
}
