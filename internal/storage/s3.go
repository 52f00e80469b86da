package storage

import (
	"athleteiq/coaching-api/internal/config"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// s3Storage implements the FileStorage interface using an S3-compatible backend.
type s3Storage struct {
	client        *s3.Client        // Regular client for PutObject/DeleteObject
	presignClient *s3.PresignClient // Special client for generating presigned URLs
	bucketName    string
	logger        *zap.Logger
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (FileStorage, error) {
	opts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		// S3-compatible services like MinIO need a custom endpoint and path-style addressing.
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true
		}
	})

	logger.Info("S3 storage initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName))

	return &s3Storage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		logger:        logger,
	}, nil
}

func (s *s3Storage) PutObject(ctx context.Context, objectKey string, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		s.logger.Error("failed to put object", zap.String("key", objectKey), zap.Error(err))
		return err
	}
	return nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		s.logger.Error("failed to presign GET URL", zap.String("key", objectKey), zap.Error(err))
		return "", err
	}

	return req.URL, nil
}

// DeleteObject removes an object from the S3 bucket.
func (s *s3Storage) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		s.logger.Error("failed to delete object", zap.String("key", objectKey), zap.Error(err))
		return err
	}

	s.logger.Info("deleted object", zap.String("key", objectKey), zap.String("bucket", s.bucketName))
	return nil
}

// endpointURL adds a scheme to bare host:port endpoints.
func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
