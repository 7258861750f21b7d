package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store is a Store backed by an S3-compatible endpoint.
type S3Store struct {
	api      *s3.Client
	bucket   string
	endpoint string
}

// S3Options configure NewS3Store.
type S3Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// NewS3Store initialises an S3-backed asset store. Path-style addressing is
// used so self-hosted endpoints work out of the box.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("s3 credentials are required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	endpoint := opts.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &S3Store{api: client, bucket: opts.Bucket, endpoint: endpoint}, nil
}

// Upload stores data under "<folder>/<uuid><ext>" and returns the public
// asset reference.
func (s *S3Store) Upload(ctx context.Context, data []byte, folder, filename string) (Asset, error) {
	if s == nil {
		return Asset{}, errors.New("nil store")
	}
	if len(data) == 0 {
		return Asset{}, errors.New("empty upload")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(folder, uuid.New().String()+ext)
	size := int64(len(data))

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: &size,
		ContentType:   aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return Asset{}, err
	}

	return Asset{
		ID:     key,
		URL:    fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key),
		Format: strings.TrimPrefix(ext, "."),
	}, nil
}

// Delete removes the object identified by a previous Upload.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if s == nil {
		return errors.New("nil store")
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &id,
	})
	return err
}
