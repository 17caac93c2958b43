package stream

import (
	"context"

	"streamapi/internal/model"
)

// Package stream contains the Cloudflare Stream API client. The client is a
// stateless request builder and response parser: every method issues one (or,
// for listing and readiness polling, several sequential) HTTP requests and
// returns the decoded Cloudflare envelope largely as-is. The remote Video
// resource is wholly owned by Cloudflare; this client only observes it, and
// mutates it only via delete.

// PullOptions are the optional parameters for PullFromURL.
type PullOptions struct {
	// RequireSignedURLs makes the resulting video playable only through
	// signed URLs produced with a signing key pair.
	RequireSignedURLs bool
	// WatermarkUID, when set, applies the given watermark profile while the
	// video is transcoded.
	WatermarkUID string
}

// Client is the Cloudflare Stream API surface used by the application.
// Implementations are safe for concurrent use by multiple goroutines; no
// state is shared between calls.
type Client interface {
	// PullFromURL asks Cloudflare to download a video from sourceURL. The
	// download happens asynchronously on the remote side; the returned uid
	// identifies the video while it is still being ingested.
	PullFromURL(ctx context.Context, sourceURL, name string, opts PullOptions) (string, Envelope, error)

	// GetVideo returns the metadata envelope for one video. Unknown uids
	// surface as *APIError with a 404 status.
	GetVideo(ctx context.Context, uid string) (Envelope, error)

	// ListVideos returns every video in the account, concatenating list
	// pages in server order. A failing page fails the whole call.
	ListVideos(ctx context.Context) ([]map[string]any, error)

	// DeleteVideo removes a video. The boolean mirrors the envelope's
	// success field; a false envelope is reported as an *APIError.
	DeleteVideo(ctx context.Context, uid string) (bool, error)

	// StorageUsage reads the account storage summary.
	StorageUsage(ctx context.Context) (model.Usage, error)
	// TotalStorageMinutes returns the plan's storage allotment in minutes.
	TotalStorageMinutes(ctx context.Context) (int64, error)
	// RemainingStorageMinutes returns the unused minutes of the plan.
	RemainingStorageMinutes(ctx context.Context) (int64, error)

	// GetDownloadURL requests an MP4 download for a video and returns its
	// URL. With waitUntilReady the call polls the download status at a fixed
	// interval until it is ready, failing with *WaitTimeoutError when the
	// attempt ceiling is reached; without it the URL is returned immediately
	// and may not resolve yet. Download URLs expire after 24 hours.
	GetDownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error)

	// SignedPlaybackToken returns a signed token that replaces the uid in
	// playback URLs for videos requiring signed URLs. Tokens are valid for
	// one hour.
	SignedPlaybackToken(ctx context.Context, uid string) (string, error)

	// CreateSigningKeys creates a new signing key pair. Cloudflare shows the
	// PEM and JWK exactly once, so this call is never retried.
	CreateSigningKeys(ctx context.Context) (model.SigningKey, Envelope, error)

	// ListSigningKeys lists existing signing keys (IDs only; key material is
	// never shown again).
	ListSigningKeys(ctx context.Context) (Envelope, error)
}
