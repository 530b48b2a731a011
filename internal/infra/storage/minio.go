package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store archives analysis envelopes to an S3-compatible bucket. The
// pipeline treats it as best-effort: a failed write is logged upstream and
// never affects the response.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New connects to MinIO and makes sure the bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// Store implements fraud.EnvelopeArchive, keyed by request id.
func (s *Store) Store(ctx context.Context, requestID string, envelope []byte) error {
	key := fmt.Sprintf("envelopes/%s.json", requestID)
	_, err := s.client.PutObject(ctx, s.bucketName, key,
		bytes.NewReader(envelope), int64(len(envelope)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put envelope %s: %w", key, err)
	}
	return nil
}
