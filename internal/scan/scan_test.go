package scan

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/beatfindr/leadscout/internal/classify"
	"github.com/beatfindr/leadscout/internal/config"
	"github.com/beatfindr/leadscout/internal/lexicon"
	"github.com/beatfindr/leadscout/internal/model"
	"github.com/beatfindr/leadscout/internal/notify"
	"github.com/beatfindr/leadscout/pkg/feeds"
	"github.com/beatfindr/leadscout/pkg/reddit"
)

func scanConfig(queries, feedURLs []string) *config.Config {
	return &config.Config{
		Reddit: config.RedditConfig{
			BaseURL:   "https://www.reddit.com",
			Sort:      "new",
			Timeframe: "week",
			Limit:     25,
			Queries:   queries,
		},
		Feeds: config.FeedsConfig{URLs: feedURLs},
		Scan:  config.ScanConfig{MaxConcurrent: 2},
	}
}

func TestRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"looking for trap instrumental"}, []string{"https://feeds.example.com/sync"})

	store := &mockStore{}
	redditClient := &mockRedditClient{}
	feedParser := &mockFeedParser{}
	notifier := &mockNotifier{}

	// Ledger starts empty.
	store.On("Leads", mock.Anything).Return([]model.Lead{}, nil)

	redditClient.On("Search", mock.Anything, "looking for trap instrumental", mock.Anything).
		Return([]reddit.Post{
			{
				Author:    "beatbuyer9",
				Title:     "Looking for trap instrumental, budget $200 for sync placement",
				Permalink: "/r/x/1",
			},
		}, nil)

	// The feed yields only seller noise.
	feedParser.On("Parse", mock.Anything, "https://feeds.example.com/sync").
		Return(&feeds.Feed{
			Title: "Sync RSS",
			Entries: []feeds.Entry{
				{Title: "Check my new beat pack free beats", Link: "https://x/noise"},
			},
		}, nil)

	store.On("Append", mock.Anything, mock.MatchedBy(func(leads []model.Lead) bool {
		return len(leads) == 1 && leads[0].URL == "https://www.reddit.com/r/x/1"
	})).Return(nil)

	notifier.On("Send", mock.Anything, mock.Anything, notify.Summary{"Reddit": 1, "Sync RSS": 0}).
		Return(nil)

	s := New(cfg, store, redditClient, feedParser, notifier, classify.New(lexicon.Default()))
	result, err := s.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.NewLeads)
	assert.Equal(t, int64(2), result.Fetched)
	assert.Equal(t, notify.Summary{"Reddit": 1, "Sync RSS": 0}, result.Counts)
	assert.NotEmpty(t, result.RunID)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunDedupesAgainstLedgerAndAcrossSources(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"q1", "q2"}, nil)

	store := &mockStore{}
	redditClient := &mockRedditClient{}
	notifier := &mockNotifier{}

	// "https://www.reddit.com/r/x/seen" is already in the ledger.
	store.On("Leads", mock.Anything).Return([]model.Lead{
		{URL: "https://www.reddit.com/r/x/seen"},
	}, nil)

	post := reddit.Post{
		Author:    "beatbuyer9",
		Title:     "Looking for trap instrumental, budget $200",
		Permalink: "/r/x/fresh",
	}
	seenPost := reddit.Post{
		Author:    "other",
		Title:     "Need a hip hop beat for video, paying",
		Permalink: "/r/x/seen",
	}

	// Both queries surface the same fresh post; one also surfaces a pre-seen one.
	redditClient.On("Search", mock.Anything, "q1", mock.Anything).
		Return([]reddit.Post{post, seenPost}, nil)
	redditClient.On("Search", mock.Anything, "q2", mock.Anything).
		Return([]reddit.Post{post}, nil)

	store.On("Append", mock.Anything, mock.MatchedBy(func(leads []model.Lead) bool {
		return len(leads) == 1 &&
			leads[0].URL == "https://www.reddit.com/r/x/fresh" &&
			leads[0].Tags[1] == "q1" // first occurrence wins, in seed order
	})).Return(nil)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := New(cfg, store, redditClient, nil, notifier, classify.New(lexicon.Default()))
	result, err := s.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.NewLeads)
	assert.Equal(t, 3, result.Candidates)
	store.AssertExpectations(t)
}

func TestRunSourceFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"q-bad", "q-good"}, []string{"https://feeds.example.com/bad"})

	store := &mockStore{}
	redditClient := &mockRedditClient{}
	feedParser := &mockFeedParser{}
	notifier := &mockNotifier{}

	store.On("Leads", mock.Anything).Return([]model.Lead{}, nil)

	redditClient.On("Search", mock.Anything, "q-bad", mock.Anything).
		Return(nil, eris.New("reddit: search \"q-bad\": unexpected status 429"))
	redditClient.On("Search", mock.Anything, "q-good", mock.Anything).
		Return([]reddit.Post{
			{Author: "a", Title: "Buying trap beats, budget $300", Permalink: "/r/x/1"},
		}, nil)
	feedParser.On("Parse", mock.Anything, "https://feeds.example.com/bad").
		Return(nil, eris.New("feeds: decode rss: unexpected EOF"))

	store.On("Append", mock.Anything, mock.MatchedBy(func(leads []model.Lead) bool {
		return len(leads) == 1
	})).Return(nil)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := New(cfg, store, redditClient, feedParser, notifier, classify.New(lexicon.Default()))
	result, err := s.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.NewLeads)
	store.AssertExpectations(t)
}

func TestRunEmptySkipsPersistAndNotifierNoops(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"q"}, nil)

	store := &mockStore{}
	redditClient := &mockRedditClient{}
	notifier := &mockNotifier{}

	store.On("Leads", mock.Anything).Return([]model.Lead{}, nil)
	redditClient.On("Search", mock.Anything, "q", mock.Anything).
		Return([]reddit.Post{}, nil)
	// Notifier is still invoked; it short-circuits internally on empty input.
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	s := New(cfg, store, redditClient, nil, notifier, classify.New(lexicon.Default()))
	result, err := s.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.NewLeads)
	store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRunNotifyFailurePropagates(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"q"}, nil)

	store := &mockStore{}
	redditClient := &mockRedditClient{}
	notifier := &mockNotifier{}

	store.On("Leads", mock.Anything).Return([]model.Lead{}, nil)
	redditClient.On("Search", mock.Anything, "q", mock.Anything).
		Return([]reddit.Post{
			{Author: "a", Title: "Buying trap beats, budget $300", Permalink: "/r/x/1"},
		}, nil)
	store.On("Append", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(eris.New("notify: send summary to ops@example.com: connection refused"))

	s := New(cfg, store, redditClient, nil, notifier, classify.New(lexicon.Default()))
	_, err := s.Run(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify")
}

func TestRunStoreReadFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	cfg := scanConfig([]string{"q"}, nil)

	store := &mockStore{}
	store.On("Leads", mock.Anything).Return(nil, eris.New("ledger: sqlite select leads: disk I/O error"))

	s := New(cfg, store, &mockRedditClient{}, nil, &mockNotifier{}, classify.New(lexicon.Default()))
	_, err := s.Run(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load seen urls")
}
