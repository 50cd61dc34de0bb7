package fsxs3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3FileSystem_WriteFile(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	fs := NewS3FileSystem(client, "resumes-bucket", "/uploads/", WithRegion("us-east-1"))

	err := fs.WriteFile(ctx, "application_resumes/j1/a1/cv.pdf", []byte("%PDF"),
		fsx.WithContentType("application/pdf"), fsx.WithInline())
	require.NoError(t, err)

	require.NotNil(t, client.lastPut)
	assert.Equal(t, "uploads/application_resumes/j1/a1/cv.pdf", aws.ToString(client.lastPut.Key))
	assert.Equal(t, "application/pdf", aws.ToString(client.lastPut.ContentType))
	assert.Equal(t, "inline", aws.ToString(client.lastPut.ContentDisposition))
	assert.Equal(t, int64(4), aws.ToInt64(client.lastPut.ContentLength))

	ok, err := fs.Exists(ctx, "application_resumes/j1/a1/cv.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := fs.ReadFile(ctx, "application_resumes/j1/a1/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, fs.DeleteFile(ctx, "application_resumes/j1/a1/cv.pdf"))
	ok, err = fs.Exists(ctx, "application_resumes/j1/a1/cv.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3FileSystem_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	fs := NewS3FileSystem(client, "b", "")

	_, err := fs.ReadFile(ctx, "missing.pdf")
	assert.True(t, errx.IsCode(err, fsx.CodeFileNotFound))

	client.putErr = errors.New("throttled")
	err = fs.WriteFileStream(ctx, "x.pdf", strings.NewReader("data"))
	assert.True(t, errx.IsCode(err, fsx.CodeWriteFailed))
}

func TestS3FileSystem_URL(t *testing.T) {
	client := newFakeS3()

	assert.Equal(t, "https://b.s3.amazonaws.com/uploads/cv.pdf",
		NewS3FileSystem(client, "b", "uploads").URL("cv.pdf"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/uploads/my%20cv.pdf",
		NewS3FileSystem(client, "b", "uploads", WithRegion("eu-west-1")).URL("my cv.pdf"))
	assert.Equal(t, "https://cdn.example.com/uploads/cv.pdf",
		NewS3FileSystem(client, "b", "uploads", WithPublicBaseURL("https://cdn.example.com/")).URL("cv.pdf"))
}
