package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultFeedBaseURL is the Yahoo Finance per-symbol headline feed.
const DefaultFeedBaseURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// YahooRSSFetcher implements Fetcher using the Yahoo Finance RSS feed.
type YahooRSSFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooRSSFetcher creates a fetcher with optional proxy support.
func NewYahooRSSFetcher(baseURL, proxyURL string) *YahooRSSFetcher {
	if baseURL == "" {
		baseURL = DefaultFeedBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooRSSFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooRSSFetcher) Name() string { return "yahoo-rss" }

// rssFeed is the subset of RSS 2.0 the headline feed uses.
type rssFeed struct {
	Channel struct {
		Items []struct {
			GUID        string `xml:"guid"`
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FetchNews downloads and parses the headline feed for one symbol.
func (f *YahooRSSFetcher) FetchNews(symbol string) ([]NewsItem, error) {
	u := fmt.Sprintf("%s?s=%s&region=US&lang=en-US&count=500", f.BaseURL, url.QueryEscape(symbol))

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("feed decode: %w", err)
	}

	items := make([]NewsItem, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		if it.GUID == "" {
			continue // cannot deduplicate without an identifier
		}
		published, err := parsePubDate(it.PubDate)
		if err != nil {
			return nil, fmt.Errorf("feed item %s: %w", it.GUID, err)
		}
		items = append(items, NewsItem{
			ID:          it.GUID,
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			PublishedAt: published,
		})
	}
	return items, nil
}

func parsePubDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse pubDate %q", s)
}
