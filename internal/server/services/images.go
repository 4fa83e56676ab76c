package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/civicreport/internal/server/config"
	"github.com/google/uuid"
)

// ObjectPutter is the slice of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

// ImageService stores issue photos in the configured bucket and hands back
// a public URL for them.
type ImageService struct {
	client   ObjectPutter
	bucket   string
	region   string
	endpoint string
}

// NewImageService builds the S3 client from static credentials. When
// S3BaseEndpoint is set (MinIO and friends) path-style addressing is used.
func NewImageService(ctx context.Context, cfg *sc.Config) (*ImageService, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewImageServiceWithClient(client, cfg), nil
}

func NewImageServiceWithClient(client ObjectPutter, cfg *sc.Config) *ImageService {
	return &ImageService{
		client:   client,
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: strings.TrimRight(cfg.S3BaseEndpoint, "/"),
	}
}

// GetRandomStorageKey returns a fresh object key under a date prefix, keeping
// the extension of filename.
func GetRandomStorageKey(filename string) string {
	d := now().UTC()
	return fmt.Sprintf("issues/%04d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(filename)))
}

// Upload streams body to a new object and returns its public URL. size is
// sent as Content-Length when positive.
func (s *ImageService) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	key := GetRandomStorageKey(filename)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	return s.PublicURL(key), nil
}

// PublicURL is the virtual-hosted AWS URL of key, or a path-style URL under
// the custom endpoint when one is configured.
func (s *ImageService) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
