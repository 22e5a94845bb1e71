// Package storage uploads menu images to S3.
package storage

import (
	"context"
	"fmt"
	"io"

	"restoran/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores objects in a single bucket and returns their public URLs.
type S3Uploader struct {
	client PutObjectAPI
	bucket string
	region string
}

// NewS3Uploader builds an S3 client from static credentials.
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3UploaderWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Region), nil
}

// NewS3UploaderWithClient wraps an existing client.
func NewS3UploaderWithClient(client PutObjectAPI, bucket, region string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, region: region}
}

// Upload writes body under key and returns the object URL.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
