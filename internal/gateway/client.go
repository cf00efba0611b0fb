package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// APIError is a failure reported by the gateway, either through the response
// envelope or through a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// envelope is the gateway's {success, data|error, message} response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func (e envelope) errorMessage() string {
	if len(e.Error) > 0 && string(e.Error) != "null" {
		var s string
		if err := json.Unmarshal(e.Error, &s); err == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(e.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// Client talks to the remote course gateway.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{
		http:   rc,
		logger: logger.With().Str("service", "GatewayClient").Logger(),
	}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// call sends a JSON request and decodes the envelope's data into out.
func (c *Client) call(ctx context.Context, token, method, path string, body, out any) error {
	req := c.request(ctx, token)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to call gateway %s %s: %w", method, path, err)
	}
	return c.decode(resp, out)
}

func (c *Client) decode(resp *resty.Response, out any) error {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			msg := strings.TrimSpace(resp.String())
			if msg == "" {
				msg = http.StatusText(resp.StatusCode())
			}
			return &APIError{Status: resp.StatusCode(), Message: msg}
		}
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if resp.IsError() || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode(), Message: env.errorMessage()}
		c.logger.Warn().
			Int("status_code", apiErr.Status).
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Str("error_body", apiErr.Message).
			Msg("Gateway returned error")
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode gateway data: %w", err)
	}
	return nil
}
