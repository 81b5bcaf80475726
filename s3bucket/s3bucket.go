package s3bucket

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectRef points at an object in a bucket. Rekognition and Textract read
// images straight from these references.
type ObjectRef struct {
	Bucket string
	Key    string
}

func (r ObjectRef) URL() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", r.Bucket, r.Key)
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}

type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3Bucket struct {
	client S3Client
	bucket string
}

func NewS3Bucket(client S3Client, bucket string) *S3Bucket {
	return &S3Bucket{
		client: client,
		bucket: bucket,
	}
}

func (bucket *S3Bucket) Name() string {
	return bucket.bucket
}

func (bucket *S3Bucket) Ref(key string) ObjectRef {
	return ObjectRef{Bucket: bucket.bucket, Key: key}
}

// Upload stores content under key and returns a reference to the object.
func (bucket *S3Bucket) Upload(ctx context.Context, content []byte, key string, mediaType string) (ObjectRef, error) {
	_, err := bucket.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return ObjectRef{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return bucket.Ref(key), nil
}

func (bucket *S3Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := bucket.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var responseError *awshttp.ResponseError
		if errors.As(err, &responseError) && responseError.HTTPStatusCode() == 404 {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}
