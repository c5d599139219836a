// Package feeds fetches and parses RSS 2.0 and Atom syndication feeds down
// to the titles and links the scan pipeline needs.
package feeds

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// Parser fetches a feed URL and returns its title and entries.
type Parser interface {
	Parse(ctx context.Context, feedURL string) (*Feed, error)
}

// Feed is a parsed syndication feed.
type Feed struct {
	Title   string
	Entries []Entry
}

// Entry is one feed item.
type Entry struct {
	Title string
	Link  string
}

// Option configures the parser.
type Option func(*httpParser)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *httpParser) {
		p.http = hc
	}
}

// WithUserAgent sets the request User-Agent.
func WithUserAgent(ua string) Option {
	return func(p *httpParser) {
		p.userAgent = ua
	}
}

type httpParser struct {
	http      *http.Client
	userAgent string
}

// NewParser creates an HTTP feed parser.
func NewParser(opts ...Option) Parser {
	p := &httpParser{
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *httpParser) Parse(ctx context.Context, feedURL string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "feeds: create request")
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "feeds: fetch %s", feedURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "feeds: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("feeds: fetch %s: unexpected status %d", feedURL, resp.StatusCode)
	}

	return parseDocument(body)
}

// rssDoc covers RSS 2.0 (Google News feeds use this).
type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

// atomDoc covers Atom 1.0.
type atomDoc struct {
	Title   string `xml:"title"`
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Rel  string `xml:"rel,attr"`
			Href string `xml:"href,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func newDecoder(body []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "feeds: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return dec
}

// parseDocument sniffs the root element and decodes RSS or Atom accordingly.
func parseDocument(body []byte) (*Feed, error) {
	root, err := rootElement(body)
	if err != nil {
		return nil, err
	}

	switch root {
	case "rss", "RDF":
		var doc rssDoc
		if err := newDecoder(body).Decode(&doc); err != nil {
			return nil, eris.Wrap(err, "feeds: decode rss")
		}
		feed := &Feed{Title: strings.TrimSpace(doc.Channel.Title)}
		for _, item := range doc.Channel.Items {
			feed.Entries = append(feed.Entries, Entry{
				Title: strings.TrimSpace(item.Title),
				Link:  strings.TrimSpace(item.Link),
			})
		}
		return feed, nil

	case "feed":
		var doc atomDoc
		if err := newDecoder(body).Decode(&doc); err != nil {
			return nil, eris.Wrap(err, "feeds: decode atom")
		}
		feed := &Feed{Title: strings.TrimSpace(doc.Title)}
		for _, entry := range doc.Entries {
			link := ""
			for _, l := range entry.Links {
				// Prefer the alternate link; bare links have no rel.
				if l.Rel == "alternate" || l.Rel == "" {
					link = l.Href
					break
				}
			}
			feed.Entries = append(feed.Entries, Entry{
				Title: strings.TrimSpace(entry.Title),
				Link:  strings.TrimSpace(link),
			})
		}
		return feed, nil

	default:
		return nil, eris.Errorf("feeds: unrecognized root element %q", root)
	}
}

func rootElement(body []byte) (string, error) {
	dec := newDecoder(body)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", eris.Wrap(err, "feeds: read root element")
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}
