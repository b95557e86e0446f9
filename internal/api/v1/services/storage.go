package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultPresignExpiry = time.Hour

// StorageConfig configures the MinIO-backed result store.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PresignExpiry bounds how long result links stay valid.
	PresignExpiry time.Duration
}

// MinioStorageService implements StorageService using MinIO. Completed
// job payloads land in the bucket as <job-id>.json.
type MinioStorageService struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinioStorageService connects to MinIO and ensures the bucket exists.
func NewMinioStorageService(ctx context.Context, cfg StorageConfig) (*MinioStorageService, error) {
	if cfg.Bucket == "" {
		cfg.Bucket = "scribe-results"
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStorageService{
		client: client,
		bucket: cfg.Bucket,
		expiry: cfg.PresignExpiry,
	}, nil
}

func resultKey(jobID string) string {
	return jobID + ".json"
}

// StoreResult uploads the payload under <job-id>.json.
func (s *MinioStorageService) StoreResult(ctx context.Context, jobID string, payload []byte) error {
	reader := bytes.NewReader(payload)
	_, err := s.client.PutObject(ctx, s.bucket, resultKey(jobID), reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"job-id":    jobID,
			"stored-at": time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload result for job %s: %w", jobID, err)
	}
	return nil
}

// ResultURL presigns a download link for the stored payload.
func (s *MinioStorageService) ResultURL(ctx context.Context, jobID string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, resultKey(jobID), s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign result URL: %w", err)
	}
	return presigned.String(), nil
}

// DeleteResult removes the stored payload.
func (s *MinioStorageService) DeleteResult(ctx context.Context, jobID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, resultKey(jobID), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete result for job %s: %w", jobID, err)
	}
	return nil
}

// MockStorageService implements StorageService in memory (for testing)
type MockStorageService struct {
	mu      sync.Mutex
	results map[string][]byte
}

// NewMockStorageService creates a mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{results: make(map[string][]byte)}
}

func (s *MockStorageService) StoreResult(ctx context.Context, jobID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey(jobID)] = append([]byte(nil), payload...)
	return nil
}

func (s *MockStorageService) ResultURL(ctx context.Context, jobID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[resultKey(jobID)]; !ok {
		return "", fmt.Errorf("no stored result for job %s", jobID)
	}
	return fmt.Sprintf("https://mock-storage.example.com/scribe-results/%s", resultKey(jobID)), nil
}

func (s *MockStorageService) DeleteResult(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, resultKey(jobID))
	return nil
}

// StoredResult returns the payload a test stored for jobID.
func (s *MockStorageService) StoredResult(jobID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.results[resultKey(jobID)]
	return payload, ok
}
