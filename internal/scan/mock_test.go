package scan

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/beatfindr/leadscout/internal/model"
	"github.com/beatfindr/leadscout/internal/notify"
	"github.com/beatfindr/leadscout/pkg/feeds"
	"github.com/beatfindr/leadscout/pkg/reddit"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Init(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Leads(ctx context.Context) ([]model.Lead, error) {
	args := m.Called(ctx)
	if leads, ok := args.Get(0).([]model.Lead); ok {
		return leads, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Append(ctx context.Context, leads []model.Lead) error {
	return m.Called(ctx, leads).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

type mockRedditClient struct {
	mock.Mock
}

func (m *mockRedditClient) Search(ctx context.Context, query string, opts reddit.SearchOptions) ([]reddit.Post, error) {
	args := m.Called(ctx, query, opts)
	if posts, ok := args.Get(0).([]reddit.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFeedParser struct {
	mock.Mock
}

func (m *mockFeedParser) Parse(ctx context.Context, feedURL string) (*feeds.Feed, error) {
	args := m.Called(ctx, feedURL)
	if feed, ok := args.Get(0).(*feeds.Feed); ok {
		return feed, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, leads []model.Lead, counts notify.Summary) error {
	return m.Called(ctx, leads, counts).Error(0)
}
