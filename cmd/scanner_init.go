package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/beatfindr/leadscout/internal/classify"
	"github.com/beatfindr/leadscout/internal/ledger"
	"github.com/beatfindr/leadscout/internal/lexicon"
	"github.com/beatfindr/leadscout/internal/notify"
	"github.com/beatfindr/leadscout/internal/scan"
	"github.com/beatfindr/leadscout/pkg/feeds"
	"github.com/beatfindr/leadscout/pkg/reddit"
)

// scanEnv holds the initialized ledger store and scanner shared by the
// run and serve commands.
type scanEnv struct {
	Store   ledger.Store
	Scanner *scan.Scanner
}

// Close releases resources held by the scan environment.
func (se *scanEnv) Close() {
	if se.Store != nil {
		_ = se.Store.Close()
	}
}

// initScanner opens the ledger, builds the source clients and classifier,
// and assembles the Scanner. Callers should defer env.Close().
func initScanner(ctx context.Context) (*scanEnv, error) {
	st, err := ledger.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := st.Init(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "init ledger")
	}

	redditClient := reddit.NewClient(cfg.Reddit.UserAgent,
		reddit.WithBaseURL(cfg.Reddit.BaseURL),
		reddit.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Reddit.TimeoutSecs) * time.Second}),
	)

	feedParser := feeds.NewParser(
		feeds.WithUserAgent(cfg.Reddit.UserAgent),
		feeds.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Feeds.TimeoutSecs) * time.Second}),
	)

	lex := lexicon.Default()
	if cfg.Lexicon.Path != "" {
		lex, err = lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "load lexicon")
		}
		zap.L().Info("lexicon loaded", zap.String("path", cfg.Lexicon.Path))
	}

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewEmail(cfg.Notify)
	} else {
		zap.L().Info("email notification disabled")
	}

	return &scanEnv{
		Store:   st,
		Scanner: scan.New(cfg, st, redditClient, feedParser, notifier, classify.New(lex)),
	}, nil
}
