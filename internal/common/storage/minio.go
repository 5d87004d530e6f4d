package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"fantasy/pkg/utils/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Region    string `yaml:"region"`

	// PublicURL is the base used to build locators, e.g. "https://cdn.example.com".
	// Defaults to the endpoint.
	PublicURL string `yaml:"publicURL"`
}

// MinIOStorage implements BlobStorage on MinIO S3-compatible APIs.
// Each container maps to one bucket, created on first use.
type MinIOStorage struct {
	client    *minio.Client
	region    string
	publicURL string

	mu      sync.Mutex
	buckets map[string]bool
}

func NewMinIOStorage(cfg MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("minio accessKey is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio secretKey is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &MinIOStorage{
		client:    client,
		region:    cfg.Region,
		publicURL: minioPublicURL(cfg),
		buckets:   make(map[string]bool),
	}, nil
}

func minioPublicURL(cfg MinIOConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimRight(cfg.Endpoint, "/")
}

func (s *MinIOStorage) SaveFile(ctx context.Context, content []byte, extension, container string) (string, error) {
	if container == "" {
		return "", fmt.Errorf("container is required")
	}
	if err := s.ensureBucket(ctx, container); err != nil {
		return "", err
	}
	extension = normalizeExtension(extension)
	name := uuid.NewString() + extension
	_, err := s.client.PutObject(ctx, container, name, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType(extension),
	})
	if err != nil {
		return "", fmt.Errorf("minio put object failed: %w", err)
	}
	return s.locator(container, name), nil
}

func (s *MinIOStorage) RemoveFile(ctx context.Context, locator, container string) error {
	name := blobName(locator)
	if name == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, container, name, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" || minio.ToErrorResponse(err).Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("minio remove object failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) EditFile(ctx context.Context, content []byte, extension, container, locator string) (string, error) {
	if err := s.RemoveFile(ctx, locator, container); err != nil {
		return "", err
	}
	return s.SaveFile(ctx, content, extension, container)
}

func (s *MinIOStorage) locator(container, name string) string {
	return s.publicURL + "/" + container + "/" + name
}

func (s *MinIOStorage) ensureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists failed: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("minio make bucket failed: %w", err)
		}
		logger.Info(ctx, "blob container created", zap.String("bucket", bucket))
	}
	policy, err := publicReadPolicy(bucket)
	if err != nil {
		return err
	}
	if err := s.client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("minio set bucket policy failed: %w", err)
	}
	s.buckets[bucket] = true
	return nil
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

// publicReadPolicy lets anonymous clients GET objects of bucket, so the
// locators returned by SaveFile can be opened directly. Listing stays private.
func publicReadPolicy(bucket string) (string, error) {
	data, err := json.Marshal(bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode bucket policy failed: %w", err)
	}
	return string(data), nil
}
