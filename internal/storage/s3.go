package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"studio/internal/config"
	"studio/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const presignExpiry = 15 * time.Minute

// S3Uploader stores resources in an S3-compatible bucket. Public resources get
// a plain object URL, private ones a short-lived presigned GET URL.
type S3Uploader struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	endpoint string
	logger   zerolog.Logger
}

// NewS3Client builds a path-style client for cfg's S3 endpoint.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
		}
		o.UsePathStyle = true
	}), nil
}

func NewS3Uploader(client *s3.Client, bucket, endpoint string, logger zerolog.Logger) *S3Uploader {
	return &S3Uploader{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
		logger:   logger.With().Str("service", "S3Uploader").Logger(),
	}
}

func objectKey(id, filename string) string {
	return path.Join("resources", id, path.Base(filename))
}

func (u *S3Uploader) Upload(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error) {
	data, contentType, err := readAll(body)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key := objectKey(id, filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	link, err := u.url(ctx, key, isPublic)
	if err != nil {
		return nil, err
	}
	u.logger.Info().Str("key", key).Int("size", len(data)).Bool("public", isPublic).Msg("Resource stored")
	return &model.Resource{
		ID:          id,
		Filename:    filename,
		Size:        int64(len(data)),
		URL:         link,
		ContentType: contentType,
		IsPublic:    isPublic,
	}, nil
}

func (u *S3Uploader) url(ctx context.Context, key string, public bool) (string, error) {
	if public && u.endpoint != "" {
		return u.endpoint + "/" + url.PathEscape(u.bucket) + "/" + key, nil
	}
	resp, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return resp.URL, nil
}

// removeDisableGzip drops the SDK's gzip guard, which breaks signatures on
// some S3-compatible services.
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
