package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"streamapi/internal/model"
	"streamapi/internal/service"
	serviceMocks "streamapi/internal/service/mocks"
	"streamapi/internal/stream"
)

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		mockSvc.On("Usage", mock.Anything).Return(model.Usage{TotalMinutes: 1000}, nil)

		app := fiber.New()
		app.Get("/health", HealthCheck(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockVideoService)
		mockSvc.On("Usage", mock.Anything).
			Return(model.Usage{}, &stream.TransportError{Err: errors.New("connect refused")})

		app := fiber.New()
		app.Get("/health", HealthCheck(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListVideos(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/videos", ListVideos(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]map[string]any{
			{"uid": "vid-1"}, {"uid": "vid-2"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body videoListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, "vid-1", body.Items[0]["uid"])
	})

	t.Run("upstream error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return(nil, &stream.APIError{
				StatusCode: http.StatusForbidden,
				Errors:     []stream.APIMessage{{Code: 10000, Message: "auth error"}},
			}).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
		require.Len(t, body.Error.Upstream, 1)
		assert.Equal(t, 10000, body.Error.Upstream[0].Code)
	})
}

func TestGetVideo(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/videos/:uid", GetVideo(mockSvc))

	t.Run("success passes envelope through", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "vid-1").Return(stream.Envelope{
			"success": true,
			"result":  map[string]any{"uid": "vid-1", "readyToStream": true},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos/vid-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "vid-1", body["result"].(map[string]any)["uid"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "nope").Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos/nope", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPullVideo(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Post("/videos", PullVideo(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Pull", mock.Anything, "https://origin.example.com/a.mp4", "a", stream.PullOptions{RequireSignedURLs: true}).
			Return(&service.PullResult{UID: "vid-new", Envelope: stream.Envelope{"success": true}}, nil).Once()

		payload, _ := json.Marshal(map[string]any{
			"url":                 "https://origin.example.com/a.mp4",
			"name":                "a",
			"require_signed_urls": true,
		})
		req := httptest.NewRequest(http.MethodPost, "/videos", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		var body service.PullResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "vid-new", body.UID)
	})

	t.Run("invalid url", func(t *testing.T) {
		mockSvc.On("Pull", mock.Anything, "notaurl", "", stream.PullOptions{}).
			Return(nil, service.ErrURLInvalid).Once()

		payload, _ := json.Marshal(map[string]any{"url": "notaurl"})
		req := httptest.NewRequest(http.MethodPost, "/videos", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "URL_INVALID", body.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/videos", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteVideo(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Delete("/videos/:uid", DeleteVideo(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "vid-1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/videos/vid-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "vid-x").Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/videos/vid-x", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDownloadURL(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	app := fiber.New()
	app.Get("/videos/:uid/download", DownloadURL(mockSvc))

	t.Run("immediate", func(t *testing.T) {
		mockSvc.On("DownloadURL", mock.Anything, "vid-1", false).
			Return("https://videodelivery.net/tok/downloads/default.mp4", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos/vid-1/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "https://videodelivery.net/tok/downloads/default.mp4", body["url"])
	})

	t.Run("wait times out", func(t *testing.T) {
		mockSvc.On("DownloadURL", mock.Anything, "vid-1", true).
			Return("", &stream.WaitTimeoutError{UID: "vid-1", Attempts: 30}).Once()

		req := httptest.NewRequest(http.MethodGet, "/videos/vid-1/download?wait=true", nil)
		resp, _ := app.Test(req, -1)

		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "NOT_READY", body.Error.Code)
	})

	t.Run("invalid wait flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/videos/vid-1/download?wait=maybe", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUsage(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	mockSvc.On("Usage", mock.Anything).Return(model.Usage{
		TotalMinutes:     1000,
		UsedMinutes:      250,
		RemainingMinutes: 750,
	}, nil)

	app := fiber.New()
	app.Get("/usage", GetUsage(mockSvc))

	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body model.Usage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 750, body.RemainingMinutes)
}

func TestCreateSigningKeys(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	mockSvc.On("CreateSigningKeys", mock.Anything).
		Return(model.SigningKey{ID: "key-1", PEM: "pem-data", JWK: "jwk-data"}, nil)

	app := fiber.New()
	app.Post("/keys", CreateSigningKeys(mockSvc))

	req := httptest.NewRequest(http.MethodPost, "/keys", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body model.SigningKey
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "key-1", body.ID)
	assert.Equal(t, "pem-data", body.PEM)
}

func TestPlaybackToken(t *testing.T) {
	mockSvc := new(serviceMocks.MockVideoService)
	mockSvc.On("PlaybackToken", mock.Anything, "vid-1").Return("signed-token", nil)

	app := fiber.New()
	app.Get("/videos/:uid/token", PlaybackToken(mockSvc))

	req := httptest.NewRequest(http.MethodGet, "/videos/vid-1/token", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "signed-token", body["token"])
}
