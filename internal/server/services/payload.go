package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/docvault-app/docvault/internal/common"
	sc "github.com/docvault-app/docvault/internal/server/config"
	"github.com/docvault-app/docvault/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PresignedUpload pairs the one-shot upload URL with the storage key bound
// to the document.
type PresignedUpload struct {
	URL        string `json:"url"`
	StorageKey string `json:"storage_key"`
}

// PayloadService hands out presigned object-storage URLs so document
// payloads never stream through the API server.
type PayloadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewPayloadService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *PayloadService {
	return &PayloadService{db: db, repomanager: m, config: cfg}
}

func randomStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PayloadService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignUpload verifies the document belongs to the user, binds a fresh
// storage key to it and returns a presigned PUT URL valid for 15 minutes.
func (s *PayloadService) PresignUpload(ctx context.Context, userID, docID string) (*PresignedUpload, error) {
	repo := s.repomanager.Documents(s.db)

	doc, err := repo.Get(ctx, userID, docID)
	if err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := randomStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, err
	}

	doc.StorageKey = key
	doc.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return &PresignedUpload{URL: req.URL, StorageKey: key}, nil
}

// PresignDownload returns a presigned GET URL for a document whose payload
// was offloaded to object storage.
func (s *PayloadService) PresignDownload(ctx context.Context, userID, docID string) (string, error) {
	repo := s.repomanager.Documents(s.db)

	doc, err := repo.Get(ctx, userID, docID)
	if err != nil {
		return "", err
	}
	if doc.StorageKey == "" {
		return "", fmt.Errorf("%w: document %s has no stored payload", common.ErrNotFound, docID)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &doc.StorageKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
