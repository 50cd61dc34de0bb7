// Package fsx abstracts the object storage that holds uploaded files.
package fsx

import (
	"context"
	"io"
	"net/http"

	"github.com/Abraxas-365/jobboard/pkg/errx"
)

// FileReader reads stored files
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter writes and removes stored files
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte, opts ...WriteOption) error
	WriteFileStream(ctx context.Context, path string, r io.Reader, opts ...WriteOption) error
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem is a storage backend whose files are reachable by public URL
type FileSystem interface {
	FileReader
	FileWriter

	// Join builds a storage path from elements
	Join(elem ...string) string

	// URL returns the public URL of a stored path
	URL(path string) string
}

// WriteOptions are the per-object attributes a backend may honor
type WriteOptions struct {
	ContentType string
	Inline      bool
}

type WriteOption func(*WriteOptions)

// WithContentType sets the stored object's content type
func WithContentType(ct string) WriteOption {
	return func(o *WriteOptions) { o.ContentType = ct }
}

// WithInline asks the backend to serve the object for display, not download
func WithInline() WriteOption {
	return func(o *WriteOptions) { o.Inline = true }
}

// ApplyWriteOptions resolves opts with an octet-stream default
func ApplyWriteOptions(opts ...WriteOption) WriteOptions {
	o := WriteOptions{ContentType: "application/octet-stream"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var ErrRegistry = errx.NewRegistry("FS")

var (
	CodeFileNotFound = ErrRegistry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeWriteFailed  = ErrRegistry.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write file")
	CodeReadFailed   = ErrRegistry.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read file")
	CodeInvalidPath  = ErrRegistry.Register("INVALID_PATH", errx.TypeValidation, http.StatusBadRequest, "Invalid file path")
)

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrWriteFailed() *errx.Error {
	return ErrRegistry.New(CodeWriteFailed)
}

func ErrReadFailed() *errx.Error {
	return ErrRegistry.New(CodeReadFailed)
}

func ErrInvalidPath() *errx.Error {
	return ErrRegistry.New(CodeInvalidPath)
}
