package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"streamapi/internal/config"
	"streamapi/internal/model"
)

const (
	defaultAPIBase      = "https://api.cloudflare.com/client/v4"
	defaultSignBase     = "https://util.cloudflarestream.com"
	defaultDeliveryBase = "https://videodelivery.net"

	defaultPollInterval    = 10 * time.Second
	defaultPollMaxAttempts = 30
	defaultPageSize        = 1000

	downloadURLTTL   = 24 * time.Hour // Cloudflare rejects longer expiries with a 403
	playbackTokenTTL = time.Hour
)

// cloudflareClient implements the Client interface against the Cloudflare
// Stream REST API. It holds only configuration; it is safe for concurrent
// use by multiple goroutines.
type cloudflareClient struct {
	cfg  config.CloudflareConfig
	http *http.Client

	apiBase      string
	signBase     string
	deliveryBase string

	pollInterval    time.Duration
	pollMaxAttempts int
	pageSize        int
}

// New creates a Cloudflare Stream client from the given configuration.
// Outbound requests are traced via otelhttp.
func New(cfg config.CloudflareConfig) (Client, error) {
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("cloudflare account id is required")
	}
	if cfg.AuthEmail == "" || cfg.AuthKey == "" {
		return nil, fmt.Errorf("cloudflare credentials are required")
	}

	c := &cloudflareClient{
		cfg:             cfg,
		http:            newHTTPClient(),
		apiBase:         baseURL(cfg.APIBase, defaultAPIBase),
		signBase:        baseURL(cfg.SignBase, defaultSignBase),
		deliveryBase:    baseURL(cfg.DeliveryBase, defaultDeliveryBase),
		pollInterval:    defaultPollInterval,
		pollMaxAttempts: defaultPollMaxAttempts,
		pageSize:        defaultPageSize,
	}
	if cfg.PollIntervalSec > 0 {
		c.pollInterval = time.Duration(cfg.PollIntervalSec) * time.Second
	}
	if cfg.PollMaxAttempts > 0 {
		c.pollMaxAttempts = cfg.PollMaxAttempts
	}
	if cfg.PageSize > 0 {
		c.pageSize = cfg.PageSize
	}
	return c, nil
}

// CreateSigningKeys creates a signing key pair using explicit credentials,
// without requiring a previously constructed client. The key material in the
// result is shown exactly once and the call is never retried.
func CreateSigningKeys(ctx context.Context, cfg config.CloudflareConfig) (model.SigningKey, Envelope, error) {
	c, err := New(cfg)
	if err != nil {
		return model.SigningKey{}, nil, err
	}
	return c.CreateSigningKeys(ctx)
}

func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   30 * time.Second,
	}
}

func baseURL(v, def string) string {
	if v == "" {
		v = def
	}
	return strings.TrimRight(v, "/")
}

// streamURL builds an account-scoped Stream API URL.
func (c *cloudflareClient) streamURL(path string) string {
	return fmt.Sprintf("%s/accounts/%s/stream%s", c.apiBase, c.cfg.AccountID, path)
}

// do issues one authenticated request and decodes the response envelope.
// HTTP status >= 400 or an envelope with success=false comes back as
// *APIError; failures before a response is obtained come back as
// *TransportError. Nothing is retried.
func (c *cloudflareClient) do(ctx context.Context, method, rawURL string, body any) (Envelope, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Auth-Email", c.cfg.AuthEmail)
	req.Header.Set("X-Auth-Key", c.cfg.AuthKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response from %s: %w", rawURL, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success() {
		return nil, &APIError{StatusCode: resp.StatusCode, Errors: env.Errors(), Envelope: env}
	}
	return env, nil
}

func (c *cloudflareClient) PullFromURL(ctx context.Context, sourceURL, name string, opts PullOptions) (string, Envelope, error) {
	payload := map[string]any{
		"url":               sourceURL,
		"requireSignedURLs": opts.RequireSignedURLs,
		"meta":              map[string]any{"name": name},
	}
	if opts.WatermarkUID != "" {
		payload["watermark"] = map[string]any{"uid": opts.WatermarkUID}
	}

	env, err := c.do(ctx, http.MethodPost, c.streamURL("/copy"), payload)
	if err != nil {
		return "", nil, err
	}
	uid := env.ResultString("uid")
	if uid == "" {
		return "", env, fmt.Errorf("copy response has no video uid")
	}
	return uid, env, nil
}

func (c *cloudflareClient) GetVideo(ctx context.Context, uid string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, c.streamURL("/"+uid), nil)
}

// ListVideos walks the list endpoint with the `after` creation-time cursor
// until a short page marks the end. Pages are concatenated in server order;
// an error on any page fails the whole call.
func (c *cloudflareClient) ListVideos(ctx context.Context) ([]map[string]any, error) {
	var all []map[string]any
	after := ""
	for {
		u := c.streamURL("")
		if after != "" {
			u += "?after=" + url.QueryEscape(after)
		}
		env, err := c.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		page := env.ResultList()
		all = append(all, page...)
		if len(page) < c.pageSize {
			return all, nil
		}
		cursor := stringField(page[len(page)-1], "created")
		if cursor == "" {
			// No cursor to continue from; treat the page as final rather
			// than loop on the same window.
			return all, nil
		}
		after = cursor
	}
}

func (c *cloudflareClient) DeleteVideo(ctx context.Context, uid string) (bool, error) {
	env, err := c.do(ctx, http.MethodDelete, c.streamURL("/"+uid), nil)
	if err != nil {
		return false, err
	}
	return env.Success(), nil
}

func (c *cloudflareClient) StorageUsage(ctx context.Context) (model.Usage, error) {
	env, err := c.do(ctx, http.MethodGet, c.streamURL("/storage-usage"), nil)
	if err != nil {
		return model.Usage{}, err
	}
	total := env.ResultInt64("totalStorageMinutesLimit")
	used := env.ResultInt64("totalStorageMinutes")
	return model.Usage{
		TotalMinutes:     total,
		UsedMinutes:      used,
		RemainingMinutes: total - used,
	}, nil
}

func (c *cloudflareClient) TotalStorageMinutes(ctx context.Context) (int64, error) {
	u, err := c.StorageUsage(ctx)
	if err != nil {
		return 0, err
	}
	return u.TotalMinutes, nil
}

func (c *cloudflareClient) RemainingStorageMinutes(ctx context.Context) (int64, error) {
	u, err := c.StorageUsage(ctx)
	if err != nil {
		return 0, err
	}
	return u.RemainingMinutes, nil
}

func (c *cloudflareClient) GetDownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error) {
	tokenBody := map[string]any{
		"id":           c.cfg.SigningToken,
		"pem":          c.cfg.PEM,
		"exp":          time.Now().Add(downloadURLTTL).Unix(),
		"downloadable": true,
	}
	env, err := c.do(ctx, http.MethodPost, c.streamURL("/"+uid+"/token"), tokenBody)
	if err != nil {
		return "", err
	}
	token := env.ResultString("token")
	if token == "" {
		return "", fmt.Errorf("token response has no token")
	}

	downloadURL := fmt.Sprintf("%s/%s/downloads/default.mp4", c.deliveryBase, token)
	downloadsURL := c.streamURL("/" + uid + "/downloads")
	authBody := map[string]string{"authorization": "Bearer " + token}

	if !waitUntilReady {
		// Kick off download generation, then hand back the URL even though
		// the file may not resolve yet.
		if _, err := c.do(ctx, http.MethodPost, downloadsURL, authBody); err != nil {
			return "", err
		}
		return downloadURL, nil
	}

	err = c.pollUntil(ctx, uid, func(ctx context.Context) (bool, error) {
		env, err := c.do(ctx, http.MethodPost, downloadsURL, authBody)
		if err != nil {
			return false, err
		}
		return downloadStatus(env) == "ready", nil
	})
	if err != nil {
		return "", err
	}
	return downloadURL, nil
}

// pollUntil runs fn at the configured fixed interval until it reports done,
// the attempt ceiling is reached, or the context ends. The first attempt
// runs immediately.
func (c *cloudflareClient) pollUntil(ctx context.Context, uid string, fn func(context.Context) (bool, error)) error {
	for attempt := 0; attempt < c.pollMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.pollInterval):
			}
		}
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return &WaitTimeoutError{UID: uid, Attempts: c.pollMaxAttempts, Interval: c.pollInterval}
}

// downloadStatus extracts result.default.status from a downloads envelope.
func downloadStatus(env Envelope) string {
	def, _ := env.Result()["default"].(map[string]any)
	return stringField(def, "status")
}

// SignedPlaybackToken signs a video uid via the Stream util endpoint. The
// endpoint takes the key material in the body and returns the token as plain
// text; no account auth headers are sent.
func (c *cloudflareClient) SignedPlaybackToken(ctx context.Context, uid string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"id":  c.cfg.SigningToken,
		"pem": c.cfg.PEM,
		"exp": time.Now().Add(playbackTokenTTL).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode request body: %w", err)
	}

	rawURL := c.signBase + "/sign/" + uid
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Method: http.MethodPost, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sign response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &APIError{StatusCode: resp.StatusCode}
	}
	return string(b), nil
}

func (c *cloudflareClient) CreateSigningKeys(ctx context.Context) (model.SigningKey, Envelope, error) {
	env, err := c.do(ctx, http.MethodPost, c.streamURL("/keys"), nil)
	if err != nil {
		return model.SigningKey{}, nil, err
	}
	key := model.SigningKey{
		ID:  env.ResultString("id"),
		PEM: env.ResultString("pem"),
		JWK: env.ResultString("jwk"),
	}
	if key.ID == "" {
		return key, env, fmt.Errorf("key response has no id")
	}
	return key, env, nil
}

func (c *cloudflareClient) ListSigningKeys(ctx context.Context) (Envelope, error) {
	return c.do(ctx, http.MethodGet, c.streamURL("/keys"), nil)
}
