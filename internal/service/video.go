package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"streamapi/internal/model"
	"streamapi/internal/stream"
)

var (
	ErrUIDRequired = errors.New("video uid is required")
	ErrURLRequired = errors.New("source url is required")
	ErrURLInvalid  = errors.New("source url must be absolute http(s)")
	ErrNotFound    = errors.New("video not found")
)

// PullResult is the service-level DTO for a pull-from-URL request.
type PullResult struct {
	UID      string          `json:"uid"`
	Envelope stream.Envelope `json:"response"`
}

// VideoService defines the use cases exposed over HTTP and the CLI. It adds
// input validation and error translation on top of the Stream client; the
// Cloudflare envelopes themselves pass through untouched.
type VideoService interface {
	// List returns all videos in the account in server order.
	List(ctx context.Context) ([]map[string]any, error)

	// Get returns the metadata envelope for one video.
	Get(ctx context.Context, uid string) (stream.Envelope, error)

	// Pull asks Cloudflare to ingest a video from sourceURL.
	Pull(ctx context.Context, sourceURL, name string, opts stream.PullOptions) (*PullResult, error)

	// Delete removes a video by uid.
	Delete(ctx context.Context, uid string) error

	// DownloadURL returns an MP4 download URL, optionally waiting for the
	// download to become ready.
	DownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error)

	// PlaybackToken returns a signed playback token for a video.
	PlaybackToken(ctx context.Context, uid string) (string, error)

	// Usage returns the account's storage plan summary.
	Usage(ctx context.Context) (model.Usage, error)

	// CreateSigningKeys creates a new signing key pair.
	CreateSigningKeys(ctx context.Context) (model.SigningKey, error)

	// ListSigningKeys lists existing signing key ids.
	ListSigningKeys(ctx context.Context) (stream.Envelope, error)
}

// videoService is a concrete implementation of VideoService.
type videoService struct {
	cf stream.Client
}

// NewVideoService constructs a new VideoService.
func NewVideoService(cf stream.Client) VideoService {
	return &videoService{cf: cf}
}

func (s *videoService) List(ctx context.Context) ([]map[string]any, error) {
	videos, err := s.cf.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *videoService) Get(ctx context.Context, uid string) (stream.Envelope, error) {
	if uid == "" {
		return nil, ErrUIDRequired
	}
	env, err := s.cf.GetVideo(ctx, uid)
	if err != nil {
		if stream.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return env, nil
}

func (s *videoService) Pull(ctx context.Context, sourceURL, name string, opts stream.PullOptions) (*PullResult, error) {
	if sourceURL == "" {
		return nil, ErrURLRequired
	}
	u, err := url.Parse(sourceURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrURLInvalid
	}

	uid, env, err := s.cf.PullFromURL(ctx, sourceURL, name, opts)
	if err != nil {
		return nil, fmt.Errorf("pull from url: %w", err)
	}
	return &PullResult{UID: uid, Envelope: env}, nil
}

func (s *videoService) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrUIDRequired
	}
	if _, err := s.cf.DeleteVideo(ctx, uid); err != nil {
		if stream.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *videoService) DownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error) {
	if uid == "" {
		return "", ErrUIDRequired
	}
	u, err := s.cf.GetDownloadURL(ctx, uid, waitUntilReady)
	if err != nil {
		if stream.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return u, nil
}

func (s *videoService) PlaybackToken(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", ErrUIDRequired
	}
	return s.cf.SignedPlaybackToken(ctx, uid)
}

func (s *videoService) Usage(ctx context.Context) (model.Usage, error) {
	return s.cf.StorageUsage(ctx)
}

func (s *videoService) CreateSigningKeys(ctx context.Context) (model.SigningKey, error) {
	key, _, err := s.cf.CreateSigningKeys(ctx)
	if err != nil {
		return model.SigningKey{}, fmt.Errorf("create signing keys: %w", err)
	}
	return key, nil
}

func (s *videoService) ListSigningKeys(ctx context.Context) (stream.Envelope, error) {
	return s.cf.ListSigningKeys(ctx)
}
