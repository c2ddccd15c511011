// Package storage 提供对象存储实现（Cloudflare R2，S3 兼容协议）
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "interiorly-ai-api/pkg/errors"

	"interiorly-ai-api/internal/config"
	"interiorly-ai-api/internal/domain/entity"
)

var tracer = otel.Tracer("storage")

// R2Store Cloudflare R2 对象存储
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Store 创建 R2 存储客户端
func NewR2Store(cfg *config.R2Config) (*R2Store, error) {
	if cfg.AccountID == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("r2 account_id and bucket are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load r2 credentials: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Put 上传对象并返回其公开访问描述
func (s *R2Store) Put(ctx context.Context, key string, data []byte, contentType string) (*entity.StoredAsset, error) {
	ctx, span := tracer.Start(ctx, "r2.Put")
	span.SetAttributes(
		attribute.String("storage.key", key),
		attribute.String("storage.content_type", contentType),
		attribute.Int("storage.size_bytes", len(data)),
	)
	defer span.End()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrStorageFailed.WithError(err)
	}

	return &entity.StoredAsset{
		Key:          key,
		URL:          s.objectURL(key),
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		AccessPolicy: entity.AccessPublic,
		UploadedAt:   time.Now(),
	}, nil
}

// Delete 删除对象
func (s *R2Store) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "r2.Delete")
	span.SetAttributes(attribute.String("storage.key", key))
	defer span.End()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		return apperrors.ErrStorageFailed.WithError(err)
	}
	return nil
}

func (s *R2Store) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, strings.TrimLeft(key, "/"))
}
