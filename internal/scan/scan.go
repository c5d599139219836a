// Package scan orchestrates a single lead-generation run: load seen URLs,
// fetch every source, build and classify candidates, dedupe, persist, notify.
package scan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/beatfindr/leadscout/internal/classify"
	"github.com/beatfindr/leadscout/internal/config"
	"github.com/beatfindr/leadscout/internal/dedupe"
	"github.com/beatfindr/leadscout/internal/ledger"
	"github.com/beatfindr/leadscout/internal/model"
	"github.com/beatfindr/leadscout/internal/notify"
	"github.com/beatfindr/leadscout/pkg/feeds"
	"github.com/beatfindr/leadscout/pkg/reddit"
)

// Scanner runs the scan pipeline. One Scanner handles one run at a time;
// scheduling repeat runs is the operator's job (cron, CI).
type Scanner struct {
	cfg           *config.Config
	store         ledger.Store
	reddit        reddit.Client
	feeds         feeds.Parser
	notifier      notify.Notifier
	classifier    *classify.Classifier
	permalinkBase string
	now           func() time.Time
}

// New creates a Scanner with all collaborators.
func New(
	cfg *config.Config,
	store ledger.Store,
	redditClient reddit.Client,
	feedParser feeds.Parser,
	notifier notify.Notifier,
	classifier *classify.Classifier,
) *Scanner {
	return &Scanner{
		cfg:           cfg,
		store:         store,
		reddit:        redditClient,
		feeds:         feedParser,
		notifier:      notifier,
		classifier:    classifier,
		permalinkBase: cfg.Reddit.BaseURL,
		now:           time.Now,
	}
}

// Result summarizes one run.
type Result struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Fetched    int64          `json:"fetched"`
	Candidates int            `json:"candidates"`
	NewLeads   int            `json:"new_leads"`
	Counts     notify.Summary `json:"counts"`
}

// Run executes one full scan. Per-query and per-feed failures are logged and
// yield zero records; persist and notify failures propagate.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	start := s.now().UTC()
	result := &Result{
		RunID:     uuid.New().String(),
		StartedAt: start,
	}
	log := zap.L().With(zap.String("run_id", result.RunID))
	log.Info("scan: starting run", zap.Time("started_at", start))

	// Seen keys from the ledger at run start. Grown in memory as candidates
	// are accepted; never persisted separately.
	existing, err := s.store.Leads(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "scan: load seen urls")
	}
	seen := dedupe.NewSeenSet(ledger.URLSet(existing))

	candidates, fetched, err := s.fetchAll(ctx, log)
	if err != nil {
		return nil, err
	}
	result.Fetched = fetched
	result.Candidates = len(candidates)

	fresh := dedupe.Filter(seen, candidates)
	result.NewLeads = len(fresh)

	counts := notify.Summary{sourceReddit: 0, sourceSync: 0}
	for _, lead := range fresh {
		if lead.Source == sourceReddit {
			counts[sourceReddit]++
		} else {
			counts[sourceSync]++
		}
	}
	result.Counts = counts

	if len(fresh) > 0 {
		if err := s.store.Append(ctx, fresh); err != nil {
			return nil, eris.Wrap(err, "scan: persist leads")
		}
		log.Info("scan: appended new leads", zap.Int("count", len(fresh)))
	} else {
		log.Info("scan: no new leads (or all dupes)")
	}

	if s.notifier != nil {
		// Notifier no-ops on an empty batch. A transport failure is fatal
		// to the run: a silently lost summary hides leads from the operator.
		if err := s.notifier.Send(ctx, fresh, counts); err != nil {
			return nil, err
		}
	}

	result.DurationMS = time.Since(start).Milliseconds()
	log.Info("scan: run complete",
		zap.Int64("fetched", result.Fetched),
		zap.Int("candidates", result.Candidates),
		zap.Int("new_leads", result.NewLeads),
		zap.Int64("duration_ms", result.DurationMS),
	)
	return result, nil
}

// fetchAll polls every seed query and feed concurrently. Results land in
// index-addressed slots so candidate order is deterministic: queries in seed
// order, then feeds in list order. A failed source logs and contributes
// nothing; only context cancellation aborts the group.
func (s *Scanner) fetchAll(ctx context.Context, log *zap.Logger) ([]model.Lead, int64, error) {
	queries := s.cfg.Reddit.Queries
	feedURLs := s.cfg.Feeds.URLs

	postLeads := make([][]model.Lead, len(queries))
	feedLeads := make([][]model.Lead, len(feedURLs))
	var fetched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Scan.MaxConcurrent
	if limit <= 0 {
		limit = 5
	}
	g.SetLimit(limit)

	searchOpts := reddit.SearchOptions{
		Sort:        s.cfg.Reddit.Sort,
		Timeframe:   s.cfg.Reddit.Timeframe,
		Limit:       s.cfg.Reddit.Limit,
		IncludeNSFW: true,
	}

	for i, query := range queries {
		g.Go(func() error {
			posts, err := s.reddit.Search(gctx, query, searchOpts)
			if err != nil {
				log.Warn("scan: reddit query failed",
					zap.String("query", query),
					zap.Error(err),
				)
				return nil // don't abort other sources
			}
			fetched.Add(int64(len(posts)))

			var leads []model.Lead
			for _, post := range posts {
				if lead, ok := s.buildPostLead(post, query); ok {
					leads = append(leads, lead)
				}
			}
			postLeads[i] = leads
			return nil
		})
	}

	for i, feedURL := range feedURLs {
		g.Go(func() error {
			feed, err := s.feeds.Parse(gctx, feedURL)
			if err != nil {
				log.Warn("scan: feed fetch failed",
					zap.String("feed_url", feedURL),
					zap.Error(err),
				)
				return nil
			}
			fetched.Add(int64(len(feed.Entries)))

			var leads []model.Lead
			for _, entry := range feed.Entries {
				if lead, ok := s.buildFeedLead(feed.Title, entry); ok {
					leads = append(leads, lead)
				}
			}
			feedLeads[i] = leads
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fetched.Load(), eris.Wrap(err, "scan: fetch")
	}

	var candidates []model.Lead
	for _, leads := range postLeads {
		candidates = append(candidates, leads...)
	}
	for _, leads := range feedLeads {
		candidates = append(candidates, leads...)
	}
	return candidates, fetched.Load(), nil
}
