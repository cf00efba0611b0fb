package video

import (
	"context"
	"fmt"
	"io"
	"time"

	"studio/internal/gateway"
	"studio/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// UploadURLIssuer hands out direct upload slots at the video provider.
type UploadURLIssuer interface {
	CreateVideoUploadURL(ctx context.Context, token string, body gateway.VideoUploadRequest) (*gateway.VideoUpload, error)
}

// Uploader sends video files straight to the provider using a slot issued by
// the gateway.
type Uploader struct {
	issuer UploadURLIssuer
	http   *resty.Client
	logger zerolog.Logger
}

func NewUploader(issuer UploadURLIssuer, timeout time.Duration, logger zerolog.Logger) *Uploader {
	return &Uploader{
		issuer: issuer,
		http:   resty.New().SetTimeout(timeout),
		logger: logger.With().Str("service", "VideoUploader").Logger(),
	}
}

// Upload streams body to the provider and returns the video in processing state.
func (u *Uploader) Upload(ctx context.Context, token, filename string, size int64, body io.Reader) (*model.Video, error) {
	slot, err := u.issuer.CreateVideoUploadURL(ctx, token, gateway.VideoUploadRequest{Filename: filename, Size: size})
	if err != nil {
		return nil, fmt.Errorf("failed to get video upload url: %w", err)
	}

	resp, err := u.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, body).
		Post(slot.UploadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video %s: %w", filename, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("video provider rejected upload of %s: status %d", filename, resp.StatusCode())
	}

	u.logger.Info().Str("video_id", slot.VideoID).Str("filename", filename).Int64("size", size).Msg("Video uploaded")
	return &model.Video{
		ID:         slot.VideoID,
		ProviderID: slot.ProviderID,
		Filename:   filename,
		Status:     model.VideoStatusProcessing,
	}, nil
}
