package gateway

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"studio/internal/model"
)

// UploadFile sends a file to POST /files/upload as multipart form data and
// returns the stored resource.
func (c *Client) UploadFile(ctx context.Context, token, filename string, body io.Reader, isPublic bool) (*model.Resource, error) {
	resp, err := c.request(ctx, token).
		SetFileReader("file", filename, body).
		SetFormData(map[string]string{"is_public": strconv.FormatBool(isPublic)}).
		Post("/files/upload")
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	var res model.Resource
	if err := c.decode(resp, &res); err != nil {
		return nil, err
	}
	if res.Filename == "" {
		res.Filename = filename
	}
	return &res, nil
}
