package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"studio/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

// MaxResourceSize is the largest resource file accepted for upload.
const MaxResourceSize = 50 << 20

var ErrTooLarge = errors.New("resource file is too large")

// Uploader stores a resource file and returns its descriptor.
type Uploader interface {
	Upload(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error)
}

// readAll buffers body up to MaxResourceSize and sniffs its content type.
func readAll(body io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResourceSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read resource: %w", err)
	}
	if len(data) > MaxResourceSize {
		return nil, "", ErrTooLarge
	}
	return data, mimetype.Detect(data).String(), nil
}

// GatewayFileUploader is the gateway's POST /files/upload endpoint.
type GatewayFileUploader interface {
	UploadFile(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error)
}

// GatewayUploader stores resources through the course gateway.
type GatewayUploader struct {
	files GatewayFileUploader
}

func NewGatewayUploader(files GatewayFileUploader) *GatewayUploader {
	return &GatewayUploader{files: files}
}

func (u *GatewayUploader) Upload(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error) {
	data, contentType, err := readAll(body)
	if err != nil {
		return nil, err
	}
	res, err := u.files.UploadFile(ctx, token, filename, bytes.NewReader(data), isPublic)
	if err != nil {
		return nil, err
	}
	if res.Size == 0 {
		res.Size = int64(len(data))
	}
	if res.ContentType == "" {
		res.ContentType = contentType
	}
	res.IsPublic = isPublic
	return res, nil
}
