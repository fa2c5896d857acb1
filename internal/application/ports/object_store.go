package ports

import "context"

// ObjectStore abstracts an S3-compatible store. All calls may fail with a
// generic "store unavailable" error; callers own retry policy.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	GetBucket() string
}
