package video

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"studio/internal/gateway"
	"studio/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	mu       sync.Mutex
	statuses []model.VideoStatus
	calls    int
}

func (s *scriptedSource) GetVideoStatus(ctx context.Context, token, videoID string) (*model.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	st := s.statuses[i]
	v := &model.Video{ID: videoID, Status: st}
	if st == model.VideoStatusReady {
		v.Duration = 90
	}
	if st == model.VideoStatusError {
		v.Error = "unsupported codec"
	}
	return v, nil
}

func TestPollUntilReady(t *testing.T) {
	src := &scriptedSource{statuses: []model.VideoStatus{model.VideoStatusProcessing, model.VideoStatusProcessing, model.VideoStatusReady}}
	p := NewPoller(src, 5*time.Millisecond, time.Second, zerolog.Nop())

	v, err := p.Poll(context.Background(), "tok", "v1")
	require.NoError(t, err)
	assert.Equal(t, model.VideoStatusReady, v.Status)
	assert.Equal(t, 3, src.calls)
}

func TestPollProviderError(t *testing.T) {
	src := &scriptedSource{statuses: []model.VideoStatus{model.VideoStatusError}}
	p := NewPoller(src, 5*time.Millisecond, time.Second, zerolog.Nop())

	_, err := p.Poll(context.Background(), "tok", "v1")
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestPollFailsClosedOnTimeout(t *testing.T) {
	src := &scriptedSource{statuses: []model.VideoStatus{model.VideoStatusProcessing}}
	p := NewPoller(src, 5*time.Millisecond, 30*time.Millisecond, zerolog.Nop())

	v, err := p.Poll(context.Background(), "tok", "v1")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrProcessingTimeout)
}

func TestPollStopsWhenContextCancelled(t *testing.T) {
	src := &scriptedSource{statuses: []model.VideoStatus{model.VideoStatusProcessing}}
	p := NewPoller(src, 5*time.Millisecond, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := p.Poll(ctx, "tok", "v1")
	assert.True(t, errors.Is(err, context.Canceled))
}

type fixedIssuer struct {
	url string
	err error
}

func (f fixedIssuer) CreateVideoUploadURL(ctx context.Context, token string, body gateway.VideoUploadRequest) (*gateway.VideoUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.VideoUpload{VideoID: "v1", ProviderID: "prov-1", UploadURL: f.url}, nil
}

func TestUploadStreamsToProvider(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		got = header.Filename + ":" + string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := NewUploader(fixedIssuer{url: srv.URL + "/upload"}, time.Second, zerolog.Nop())
	v, err := u.Upload(context.Background(), "tok", "intro.mp4", 5, strings.NewReader("video"))
	require.NoError(t, err)

	assert.Equal(t, "intro.mp4:video", got)
	assert.Equal(t, "v1", v.ID)
	assert.Equal(t, "prov-1", v.ProviderID)
	assert.Equal(t, model.VideoStatusProcessing, v.Status)
}

func TestUploadProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	u := NewUploader(fixedIssuer{url: srv.URL}, time.Second, zerolog.Nop())
	_, err := u.Upload(context.Background(), "tok", "big.mp4", 5, strings.NewReader("video"))
	assert.Error(t, err)

	u = NewUploader(fixedIssuer{err: errors.New("quota exceeded")}, time.Second, zerolog.Nop())
	_, err = u.Upload(context.Background(), "tok", "big.mp4", 5, strings.NewReader("video"))
	assert.ErrorContains(t, err, "quota exceeded")
}
