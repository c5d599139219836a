// Package model defines the typed records shared across the scan pipeline.
package model

import (
	"strings"
	"time"
)

// TimestampLayout is the display format for lead capture times, always UTC.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// LedgerHeader is the ledger's column schema. The header row (or the column
// set, for SQL drivers) is the schema contract: a store whose current header
// differs is destructively reset.
var LedgerHeader = []string{"Timestamp", "Source", "From/Author", "Title", "URL", "Tags"}

// Lead is a candidate buyer/sync opportunity extracted from a monitored
// source. URL uniquely identifies a lead for the lifetime of the ledger;
// leads are appended once and never mutated.
type Lead struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Tags      []string  `json:"tags"`
}

// TagString renders the provenance tags as a single semicolon-joined cell.
func (l Lead) TagString() string {
	return strings.Join(l.Tags, "; ")
}

// Row renders the lead as a ledger row in LedgerHeader order.
func (l Lead) Row() []string {
	return []string{
		l.Timestamp.UTC().Format(TimestampLayout),
		l.Source,
		l.Author,
		l.Title,
		l.URL,
		l.TagString(),
	}
}

// LeadFromRow parses a ledger row back into a Lead. Short rows yield a
// zero-padded lead rather than an error so a hand-edited sheet still loads.
func LeadFromRow(row []string) Lead {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	ts, err := time.Parse(TimestampLayout, cell(0))
	if err != nil {
		ts = time.Time{}
	}

	var tags []string
	if raw := cell(5); raw != "" {
		for _, t := range strings.Split(raw, ";") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	return Lead{
		Timestamp: ts,
		Source:    cell(1),
		Author:    cell(2),
		Title:     cell(3),
		URL:       cell(4),
		Tags:      tags,
	}
}
