package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitlog/internal/common"
	sc "github.com/dmitrijs2005/fitlog/internal/server/config"
	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

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

// PhotoUpload tells the client where to PUT a progress photo.
type PhotoUpload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoService issues presigned object storage URLs for progress photos and
// records the object key on the day's body metrics.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewPhotoService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *PhotoService {
	return &PhotoService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		now:         time.Now,
	}
}

// PhotoStorageKey builds a fresh object key under the user's prefix.
func PhotoStorageKey(userID, date string) string {
	return fmt.Sprintf("photos/%s/%s/%v", userID, date, uuid.New())
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// UploadURL presigns a PUT for a new photo object and stores its key as the
// photo of (userID, date), replacing any previous one.
func (s *PhotoService) UploadURL(ctx context.Context, userID, date string) (*PhotoUpload, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := PhotoStorageKey(userID, date)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PhotoURLTTL))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	if _, err := s.repomanager.BodyMetrics(s.db).Upsert(ctx, userID, date, &models.BodyMetricsPatch{PhotoKey: &key}); err != nil {
		return nil, fmt.Errorf("error storing photo key: %w", err)
	}

	return &PhotoUpload{Key: key, URL: req.URL, ExpiresAt: s.now().Add(s.config.PhotoURLTTL)}, nil
}

// DownloadURL presigns a GET for the photo stored on (userID, date).
// A day without a photo is common.ErrorNotFound.
func (s *PhotoService) DownloadURL(ctx context.Context, userID, date string) (string, error) {
	if err := ValidateDate(date); err != nil {
		return "", err
	}

	m, err := s.repomanager.BodyMetrics(s.db).Get(ctx, userID, date)
	if err != nil {
		return "", err
	}
	if m.PhotoKey == nil || *m.PhotoKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	reg, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    m.PhotoKey,
	}, s3.WithPresignExpires(s.config.PhotoURLTTL))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	return reg.URL, nil
}
