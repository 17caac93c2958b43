package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamapi/internal/model"
	"streamapi/internal/stream"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) PullFromURL(ctx context.Context, sourceURL, name string, opts stream.PullOptions) (string, stream.Envelope, error) {
	args := m.Called(ctx, sourceURL, name, opts)
	env, _ := args.Get(1).(stream.Envelope)
	return args.String(0), env, args.Error(2)
}

func (m *MockClient) GetVideo(ctx context.Context, uid string) (stream.Envelope, error) {
	args := m.Called(ctx, uid)
	env, _ := args.Get(0).(stream.Envelope)
	return env, args.Error(1)
}

func (m *MockClient) ListVideos(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]map[string]any)
	return items, args.Error(1)
}

func (m *MockClient) DeleteVideo(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) StorageUsage(ctx context.Context) (model.Usage, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Usage), args.Error(1)
}

func (m *MockClient) TotalStorageMinutes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClient) RemainingStorageMinutes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClient) GetDownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error) {
	args := m.Called(ctx, uid, waitUntilReady)
	return args.String(0), args.Error(1)
}

func (m *MockClient) SignedPlaybackToken(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *MockClient) CreateSigningKeys(ctx context.Context) (model.SigningKey, stream.Envelope, error) {
	args := m.Called(ctx)
	env, _ := args.Get(1).(stream.Envelope)
	return args.Get(0).(model.SigningKey), env, args.Error(2)
}

func (m *MockClient) ListSigningKeys(ctx context.Context) (stream.Envelope, error) {
	args := m.Called(ctx)
	env, _ := args.Get(0).(stream.Envelope)
	return env, args.Error(1)
}
