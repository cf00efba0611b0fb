package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"studio/internal/config"
	"studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFiles struct {
	filename string
	data     []byte
	public   bool
}

func (r *recordingFiles) UploadFile(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error) {
	r.filename = filename
	r.data, _ = io.ReadAll(body)
	r.public = isPublic
	return &model.Resource{ID: "r1", Filename: filename, URL: "https://files.example.com/r1"}, nil
}

func TestGatewayUploaderSniffsContentType(t *testing.T) {
	files := &recordingFiles{}
	u := NewGatewayUploader(files)

	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	res, err := u.Upload(context.Background(), "tok", "syllabus.pdf", bytes.NewReader(pdf), true)
	require.NoError(t, err)

	assert.Equal(t, "syllabus.pdf", files.filename)
	assert.Equal(t, pdf, files.data)
	assert.True(t, files.public)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, int64(len(pdf)), res.Size)
	assert.True(t, res.IsPublic)
}

func TestUploadRejectsOversizedFiles(t *testing.T) {
	u := NewGatewayUploader(&recordingFiles{})
	body := io.LimitReader(zeroReader{}, MaxResourceSize+10)
	_, err := u.Upload(context.Background(), "tok", "huge.bin", body, false)
	assert.ErrorIs(t, err, ErrTooLarge)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "resources/abc/notes.txt", objectKey("abc", "../../notes.txt"))
}

func TestPublicURLUsesEndpoint(t *testing.T) {
	client, err := NewS3Client(context.Background(), &config.Config{
		S3URL:       "http://localhost:9000",
		S3Region:    "us-east-1",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})
	require.NoError(t, err)
	u := NewS3Uploader(client, "course-files", "http://localhost:9000/", zerolog.Nop())

	link, err := u.url(context.Background(), "resources/abc/a.pdf", true)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/course-files/resources/abc/a.pdf", link)

	signed, err := u.url(context.Background(), "resources/abc/a.pdf", false)
	require.NoError(t, err)
	assert.True(t, strings.Contains(signed, "X-Amz-Signature"))
}
