package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamapi/internal/model"
	"streamapi/internal/service"
	"streamapi/internal/stream"
)

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) List(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]map[string]any)
	return items, args.Error(1)
}

func (m *MockVideoService) Get(ctx context.Context, uid string) (stream.Envelope, error) {
	args := m.Called(ctx, uid)
	env, _ := args.Get(0).(stream.Envelope)
	return env, args.Error(1)
}

func (m *MockVideoService) Pull(ctx context.Context, sourceURL, name string, opts stream.PullOptions) (*service.PullResult, error) {
	args := m.Called(ctx, sourceURL, name, opts)
	res, _ := args.Get(0).(*service.PullResult)
	return res, args.Error(1)
}

func (m *MockVideoService) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockVideoService) DownloadURL(ctx context.Context, uid string, waitUntilReady bool) (string, error) {
	args := m.Called(ctx, uid, waitUntilReady)
	return args.String(0), args.Error(1)
}

func (m *MockVideoService) PlaybackToken(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *MockVideoService) Usage(ctx context.Context) (model.Usage, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Usage), args.Error(1)
}

func (m *MockVideoService) CreateSigningKeys(ctx context.Context) (model.SigningKey, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.SigningKey), args.Error(1)
}

func (m *MockVideoService) ListSigningKeys(ctx context.Context) (stream.Envelope, error) {
	args := m.Called(ctx)
	env, _ := args.Get(0).(stream.Envelope)
	return env, args.Error(1)
}
