package facades

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

// S3MediaStore is the external media host collaborator backed by an
// S3-compatible object store. The asset PublicID is the object key.
type S3MediaStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// MediaConfig holds the object store connection settings.
type MediaConfig struct {
	Region        string
	Endpoint      string // optional, for S3-compatible stores
	Bucket        string
	PublicBaseURL string
}

// NewS3MediaStore configures a media store targeting the given bucket.
func NewS3MediaStore(ctx context.Context, cfg MediaConfig) (*S3MediaStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("media store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{URL: cfg.Endpoint, SigningRegion: cfg.Region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3MediaStore{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the content under a generated key in the given folder
// and returns the asset handle.
func (s *S3MediaStore) Upload(ctx context.Context, folder, filename string, r io.Reader, contentType string) (*models.MediaAsset, error) {
	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), path.Ext(filename))

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        manager.ReadSeekCloser(r),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})

	logger.Log.Infow("media upload",
		"bucket", s.bucket,
		"key", key,
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("media upload %s: %w", key, err)
	}

	url := key
	if s.baseURL != "" {
		url = fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return &models.MediaAsset{URL: url, PublicID: key}, nil
}

// Delete removes an asset by its public id. Used for compensating
// cleanup when a persist fails after an upload, and when an avatar or
// thumbnail is replaced.
func (s *S3MediaStore) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})

	logger.Log.Infow("media delete",
		"bucket", s.bucket,
		"key", publicID,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("media delete %s: %w", publicID, err)
	}
	return nil
}
