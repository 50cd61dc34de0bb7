// Package fsxs3 stores files in an S3 bucket.
package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/Abraxas-365/jobboard/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// API is the subset of *s3.Client used here
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3FileSystem implements fsx.FileSystem on a bucket, under a key prefix
type S3FileSystem struct {
	client        API
	bucket        string
	prefix        string
	region        string
	publicBaseURL string
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)

type Option func(*S3FileSystem)

// WithRegion is used to build virtual-hosted style URLs
func WithRegion(region string) Option {
	return func(fs *S3FileSystem) { fs.region = region }
}

// WithPublicBaseURL serves files from a CDN or custom domain instead of the
// bucket endpoint
func WithPublicBaseURL(base string) Option {
	return func(fs *S3FileSystem) { fs.publicBaseURL = strings.TrimRight(base, "/") }
}

// NewS3FileSystem creates a new S3 backed file system
func NewS3FileSystem(client API, bucket, prefix string, opts ...Option) *S3FileSystem {
	fs := &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

func (fs *S3FileSystem) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if fs.prefix == "" {
		return p
	}
	return fs.prefix + "/" + p
}

func (fs *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (fs *S3FileSystem) URL(p string) string {
	escaped := (&url.URL{Path: fs.key(p)}).EscapedPath()
	if fs.publicBaseURL != "" {
		return fs.publicBaseURL + "/" + escaped
	}
	if fs.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", fs.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", fs.bucket, fs.region, escaped)
}

func (fs *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte, opts ...fsx.WriteOption) error {
	o := fsx.ApplyWriteOptions(opts...)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(fs.bucket),
		Key:           aws.String(fs.key(p)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(o.ContentType),
	}
	if o.Inline {
		input.ContentDisposition = aws.String("inline")
	}

	if _, err := fs.client.PutObject(ctx, input); err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return nil
}

// WriteFileStream buffers r before uploading; PutObject needs a known length
func (fs *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader, opts ...fsx.WriteOption) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return fs.WriteFile(ctx, p, data, opts...)
}

func (fs *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := fs.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fsx.ErrReadFailed().WithCause(err).WithDetail("path", p)
	}
	return data, nil
}

func (fs *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fsx.ErrFileNotFound().WithDetail("path", p)
		}
		return nil, fsx.ErrReadFailed().WithCause(err).WithDetail("path", p)
	}
	return out.Body, nil
}

func (fs *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fsx.ErrReadFailed().WithCause(err).WithDetail("path", p)
}

func (fs *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fs.key(p)),
	})
	if err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return nil
}
