// Package objectstore provides a transfer client that stores dataframes in
// an S3-compatible bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Ensure S3Transfer implements the interface.
var _ driven.TransferClient = (*S3Transfer)(nil)

// CodeStored is the result code of a completed bucket upload.
const CodeStored = "Stored"

// Config locates the bucket and its credentials.
type Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string

	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// S3Transfer lists and uploads objects under a key prefix. Remote paths map
// onto keys by dropping the leading slash.
type S3Transfer struct {
	client *s3.Client
	bucket string
	prefix string
	fs     afero.Fs
}

// NewS3Client builds an S3 client from cfg. A custom endpoint switches to
// path-style addressing for S3-compatible servers.
func NewS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Source:          "pilot",
		}
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	}
	if cfg.HTTPClient != nil {
		opts.HTTPClient = cfg.HTTPClient
	}
	return s3.New(opts)
}

// NewS3Transfer creates a transfer client for the configured bucket.
func NewS3Transfer(client *s3.Client, bucket, prefix string, fs afero.Fs) *S3Transfer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &S3Transfer{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		fs:     fs,
	}
}

// List returns the objects and sub-prefixes directly under path.
// A path with no objects below it is reported as not found.
func (t *S3Transfer) List(ctx context.Context, p string) ([]domain.DirEntry, error) {
	dir := t.key(p)
	if dir != "" {
		dir += "/"
	}

	paginator := s3.NewListObjectsV2Paginator(t.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(t.bucket),
		Prefix:    aws.String(dir),
		Delimiter: aws.String("/"),
	})

	var entries []domain.DirEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", transferError(err))
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), dir), "/")
			entries = append(entries, domain.DirEntry{Name: name, Type: domain.DirEntryDir})
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), dir)
			if name == "" {
				continue
			}
			entries = append(entries, domain.DirEntry{
				Name: name,
				Type: domain.DirEntryFile,
				Size: aws.ToInt64(obj.Size),
			})
		}
	}

	if len(entries) == 0 && t.key(p) != t.prefix {
		return nil, &domain.TransferError{
			Code:    domain.TransferCodeNotFound,
			Message: fmt.Sprintf("no objects under s3://%s/%s", t.bucket, dir),
		}
	}
	return entries, nil
}

// SubmitTransfer uploads every item, stopping at the first failure.
func (t *S3Transfer) SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	for _, item := range req.Items {
		if err := t.put(ctx, item); err != nil {
			return nil, err
		}
	}
	return &domain.TransferResult{
		TaskID:  uuid.New().String(),
		Code:    CodeStored,
		Message: fmt.Sprintf("Stored %d object(s) in %s", len(req.Items), t.bucket),
	}, nil
}

func (t *S3Transfer) put(ctx context.Context, item domain.TransferItem) error {
	f, err := t.fs.Open(item.LocalPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", item.LocalPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", item.LocalPath, err)
	}

	key := t.key(item.RemotePath)
	logger.Debug("putting %s to s3://%s/%s", item.LocalPath, t.bucket, key)
	_, err = t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return fmt.Errorf("putting object: %w", transferError(err))
	}
	return nil
}

// key maps a remote path onto an object key under the prefix.
func (t *S3Transfer) key(remotePath string) string {
	return strings.TrimPrefix(path.Join(t.prefix, remotePath), "/")
}

// transferError exposes the service error code to callers.
func transferError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "NoSuchBucket" || code == "NotFound" {
			code = domain.TransferCodeNotFound
		}
		return &domain.TransferError{Code: code, Message: apiErr.ErrorMessage()}
	}
	return err
}
