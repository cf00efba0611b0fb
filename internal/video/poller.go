package video

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio/internal/model"

	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 2 * time.Minute
)

var (
	ErrProcessingTimeout = errors.New("video processing timed out")
	ErrProcessingFailed  = errors.New("video processing failed")
)

// StatusSource reports the provider's processing state for a video.
type StatusSource interface {
	GetVideoStatus(ctx context.Context, token, videoID string) (*model.Video, error)
}

// Poller waits for a video to finish processing.
type Poller struct {
	source   StatusSource
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewPoller(source StatusSource, interval, timeout time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	return &Poller{
		source:   source,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With().Str("service", "VideoPoller").Logger(),
	}
}

// Poll checks the video every interval until it is ready, the provider
// reports an error, the timeout elapses or ctx is cancelled. It never reports
// a video as ready unless the provider did.
func (p *Poller) Poll(ctx context.Context, token, videoID string) (*model.Video, error) {
	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		v, err := p.source.GetVideoStatus(pollCtx, token, videoID)
		switch {
		case err != nil:
			p.logger.Warn().Err(err).Str("video_id", videoID).Msg("Failed to fetch video status")
		case v.Status == model.VideoStatusReady:
			return v, nil
		case v.Status == model.VideoStatusError:
			return v, fmt.Errorf("%w: %s", ErrProcessingFailed, v.Error)
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrProcessingTimeout
		case <-ticker.C:
		}
	}
}
