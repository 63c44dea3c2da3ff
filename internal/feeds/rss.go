package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
	"github.com/MBach/LeMondeRssReader-sub000/pkg/httpclient"
)

// Service fetches category feeds and parses them into summaries.
type Service struct {
	client httpclient.Client
}

// NewService constructs a feed service with the provided HTTP client (or default).
func NewService(client httpclient.Client) *Service {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	return &Service{client: client}
}

type rssFeed struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title     string       `xml:"title"`
	Link      string       `xml:"link"`
	PubDate   string       `xml:"pubDate"`
	Media     []rssMedia   `xml:"content"`
	Enclosure rssEnclosure `xml:"enclosure"`
}

type rssMedia struct {
	URL string `xml:"url,attr"`
}

type rssEnclosure struct {
	URL string `xml:"url,attr"`
}

// Fetch downloads the category's RSS feed and returns its entries in feed order.
func (s *Service) Fetch(ctx context.Context, cat Category) ([]domain.Summary, error) {
	resp, err := s.client.Get(ctx, cat.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", cat.ID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s feed returned status %d body: %s", cat.ID, resp.StatusCode(), feedSnippet(resp.Body()))
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", cat.ID, err)
	}

	summaries := make([]domain.Summary, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = link
		}

		summaries = append(summaries, domain.Summary{
			Title:    title,
			Link:     link,
			Date:     strings.TrimSpace(item.PubDate),
			ImageURL: itemImage(item),
			Category: cat.ID,
		})
	}

	if len(summaries) == 0 {
		return nil, fmt.Errorf("%s feed returned no entries", cat.ID)
	}
	return summaries, nil
}

// itemImage prefers media:content thumbnails over enclosures.
func itemImage(item rssItem) string {
	for _, media := range item.Media {
		if url := strings.TrimSpace(media.URL); url != "" {
			return url
		}
	}
	return strings.TrimSpace(item.Enclosure.URL)
}

func feedSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
