package aws

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 API used to read objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// BucketLocator is the subset of the S3 API used to resolve bucket regions.
type BucketLocator interface {
	GetBucketLocation(ctx context.Context, in *s3.GetBucketLocationInput, opts ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
}

// ReadObject downloads an object fully into memory.
func ReadObject(ctx context.Context, api ObjectGetter, bucket, key string) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, WrapAWSError(err, "get object")
	}
	defer out.Body.Close()

	bb, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}

	return bb, nil
}

// BucketRegion returns the region a bucket lives in.
func BucketRegion(ctx context.Context, api BucketLocator, bucket string) (string, error) {
	output, err := api.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: &bucket,
	})
	if err != nil {
		return "", WrapAWSError(err, "get bucket location")
	}

	// If LocationConstraint is empty, bucket is in us-east-1
	if output.LocationConstraint == "" {
		return DefaultRegion, nil
	}

	return string(output.LocationConstraint), nil
}

// ObjectFetcher reads S3 objects through a connection, using a client in the
// bucket's own region.
type ObjectFetcher struct {
	conn Connection
}

// NewObjectFetcher returns a new fetcher.
func NewObjectFetcher(conn Connection) *ObjectFetcher {
	return &ObjectFetcher{conn: conn}
}

// Fetch returns the content of s3://bucket/key.
func (f *ObjectFetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	client := f.conn.S3()
	if client == nil {
		return nil, fmt.Errorf("failed to get S3 client")
	}
	region, err := BucketRegion(ctx, client, bucket)
	if err != nil {
		return nil, err
	}
	regional := f.conn.S3Regional(region)
	if regional == nil {
		return nil, fmt.Errorf("failed to get regional S3 client for %s", region)
	}

	return ReadObject(ctx, regional, bucket, key)
}
