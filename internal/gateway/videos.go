package gateway

import (
	"context"
	"net/http"
	"net/url"

	"studio/internal/model"
)

// VideoUploadRequest asks the gateway for a direct upload URL.
type VideoUploadRequest struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// VideoUpload is an issued direct upload slot.
type VideoUpload struct {
	VideoID    string `json:"video_id"`
	ProviderID string `json:"provider_id"`
	UploadURL  string `json:"upload_url"`
}

func (c *Client) CreateVideoUploadURL(ctx context.Context, token string, body VideoUploadRequest) (*VideoUpload, error) {
	var out VideoUpload
	if err := c.call(ctx, token, http.MethodPost, "/videos/upload-url", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetVideoStatus(ctx context.Context, token, videoID string) (*model.Video, error) {
	var v model.Video
	path := "/videos/" + url.PathEscape(videoID) + "/status"
	if err := c.call(ctx, token, http.MethodGet, path, nil, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = videoID
	}
	return &v, nil
}
