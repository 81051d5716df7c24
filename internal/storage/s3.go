package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the parameters for an S3-compatible object store
// (AWS S3, MinIO, etc.).
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string // optional, for MinIO-style deployments
	UsePathStyle bool
}

// S3Signer issues presigned GET URLs against an S3-compatible bucket.
type S3Signer struct {
	bucket  string
	presign *s3.PresignClient
}

// NewS3Signer constructs the signer, loading credentials eagerly so
// misconfiguration fails at startup rather than on the first request.
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Signer{
		bucket:  cfg.Bucket,
		presign: s3.NewPresignClient(client),
	}, nil
}

// SignGetURL produces a presigned GET for the stored object. The expiry is
// enforced by the object store itself.
func (s *S3Signer) SignGetURL(ctx context.Context, key string, ttl time.Duration) (SignedURL, error) {
	if strings.TrimSpace(key) == "" {
		return SignedURL{}, errors.New("storage: object key is required")
	}
	if ttl <= 0 {
		return SignedURL{}, errors.New("storage: ttl must be positive")
	}

	now := time.Now()
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return SignedURL{}, err
	}

	return SignedURL{
		URL:       req.URL,
		ExpiresAt: now.Add(ttl),
	}, nil
}
