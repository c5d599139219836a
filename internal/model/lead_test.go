package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeadRow(t *testing.T) {
	lead := Lead{
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Source:    "Reddit",
		Author:    "u/producerfan",
		Title:     "Looking for trap instrumental",
		URL:       "https://www.reddit.com/r/x/1",
		Tags:      []string{"reddit", "buying beats"},
	}

	row := lead.Row()

	assert.Equal(t, []string{
		"2026-03-14 09:30:00 UTC",
		"Reddit",
		"u/producerfan",
		"Looking for trap instrumental",
		"https://www.reddit.com/r/x/1",
		"reddit; buying beats",
	}, row)
	assert.Len(t, row, len(LedgerHeader))
}

func TestLeadRowRoundTrip(t *testing.T) {
	lead := Lead{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:    "Sync RSS",
		Author:    "Sync RSS",
		Title:     "Sync brief: trap cues wanted",
		URL:       "https://news.example.com/1",
		Tags:      []string{"sync", "rss"},
	}

	got := LeadFromRow(lead.Row())

	assert.True(t, got.Timestamp.Equal(lead.Timestamp))
	assert.Equal(t, lead.Source, got.Source)
	assert.Equal(t, lead.Author, got.Author)
	assert.Equal(t, lead.Title, got.Title)
	assert.Equal(t, lead.URL, got.URL)
	assert.Equal(t, lead.Tags, got.Tags)
}

func TestLeadFromRowShortRow(t *testing.T) {
	got := LeadFromRow([]string{"garbage", "Reddit"})

	assert.True(t, got.Timestamp.IsZero())
	assert.Equal(t, "Reddit", got.Source)
	assert.Empty(t, got.URL)
	assert.Nil(t, got.Tags)
}
