package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
)

// objectPutter is the part of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores captured audio under {prefix}/{user}/{yyyy/mm/dd}/{uuid}.{ext}.
type S3Archive struct {
	client objectPutter
	bucket string
	prefix string
	clock  func() time.Time
}

// NewS3Archive creates an archive writing to bucket.
func NewS3Archive(client *s3.Client, bucket, prefix string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		clock:  time.Now,
	}
}

// Store uploads the blob as a private object and returns its key.
func (a *S3Archive) Store(ctx context.Context, userID string, data []byte, mimeType, extension string) (string, error) {
	key := path.Join(a.prefix, userID, a.clock().UTC().Format("2006/01/02"), uuid.NewString()+"."+extension)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimeType),
		ACL:           s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to s3: %w", err)
	}

	return key, nil
}

// NewS3Client builds an S3 client from static credentials. A custom endpoint
// and path-style addressing allow S3 compatible stores such as MinIO.
func NewS3Client(ctx context.Context, cfg config.S3, logger *zap.Logger) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info("S3 client initialized", zap.String("bucket", cfg.Bucket), zap.String("region", cfg.Region))
	return client, nil
}

// NopArchive drops audio. Store returns an empty key.
type NopArchive struct{}

func (NopArchive) Store(context.Context, string, []byte, string, string) (string, error) {
	return "", nil
}
