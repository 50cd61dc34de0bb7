// Package fsxlocal stores files on local disk, for development and tests.
package fsxlocal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/jobboard/pkg/fsx"
)

// LocalFileSystem keeps files under root and serves them from baseURL
type LocalFileSystem struct {
	root    string
	baseURL string
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem creates the root directory if needed
func NewLocalFileSystem(root, baseURL string) (*LocalFileSystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileSystem{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root is the directory files are written to
func (l *LocalFileSystem) Root() string { return l.root }

func (l *LocalFileSystem) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fsx.ErrInvalidPath().WithDetail("path", p)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *LocalFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (l *LocalFileSystem) URL(p string) string {
	clean := strings.TrimLeft(path.Clean("/"+p), "/")
	return l.baseURL + "/" + (&url.URL{Path: clean}).EscapedPath()
}

// WriteFile ignores content type and disposition; the static handler infers them
func (l *LocalFileSystem) WriteFile(_ context.Context, p string, data []byte, _ ...fsx.WriteOption) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return nil
}

func (l *LocalFileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader, opts ...fsx.WriteOption) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return l.WriteFile(ctx, p, buf.Bytes(), opts...)
}

func (l *LocalFileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	full, err := l.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsx.ErrFileNotFound().WithDetail("path", p)
	}
	if err != nil {
		return nil, fsx.ErrReadFailed().WithCause(err).WithDetail("path", p)
	}
	return data, nil
}

func (l *LocalFileSystem) ReadFileStream(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := l.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fsx.ErrFileNotFound().WithDetail("path", p)
	}
	if err != nil {
		return nil, fsx.ErrReadFailed().WithCause(err).WithDetail("path", p)
	}
	return f, nil
}

func (l *LocalFileSystem) Exists(_ context.Context, p string) (bool, error) {
	full, err := l.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (l *LocalFileSystem) DeleteFile(_ context.Context, p string) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fsx.ErrWriteFailed().WithCause(err).WithDetail("path", p)
	}
	return nil
}
