package extract

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
	"github.com/MBach/LeMondeRssReader-sub000/internal/logger"
	"github.com/MBach/LeMondeRssReader-sub000/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 4 << 20 // 4 MiB

	// defaultPublisher is the byline the publication stamps into meta
	// tags when no individual author is credited.
	defaultPublisher = "Le Monde"

	readingTimeLabel = "Temps de Lecture"

	selLongForm      = ".article--longform"
	selAuthorLink    = "a.article__author-link"
	selDate          = ".meta__date"
	selPublisherLine = "p.meta__publisher"
	selReadingTime   = ".meta__reading-time"
)

// Extractor turns fetched news pages into renderable content models.
// Tree walking is synchronous and pure; only fetches suspend.
type Extractor struct {
	client httpclient.Client
	feed   LiveFeed
	flags  Flags
}

// NewExtractor constructs an extractor with the provided HTTP client (or
// default) and an optional live pagination feed.
func NewExtractor(client httpclient.Client, feed LiveFeed, flags Flags) *Extractor {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	return &Extractor{client: client, feed: feed, flags: flags}
}

// Article fetches and assembles a standard article page.
func (e *Extractor) Article(ctx context.Context, link string) (*domain.Article, error) {
	doc, err := e.fetchDocument(ctx, link)
	if err != nil {
		return nil, err
	}
	return e.assembleArticle(doc)
}

// ArticleFromHTML assembles an article from already-fetched markup.
func (e *Extractor) ArticleFromHTML(body []byte) (*domain.Article, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	return e.assembleArticle(doc)
}

func (e *Extractor) fetchDocument(ctx context.Context, link string) (*goquery.Document, error) {
	resp, err := e.client.Get(ctx, link, nil)
	if err != nil {
		return nil, fetchFailed("http fetch: %v", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fetchFailed("status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	return parseDocument(body)
}

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fetchFailed("parse html: %v", err)
	}
	return doc, nil
}

func (e *Extractor) assembleArticle(doc *goquery.Document) (*domain.Article, error) {
	header := extractMeta(doc)

	// A page without its root content container cannot render anything
	// useful; surface it like a failed fetch so the retry path stays
	// reachable.
	main := doc.Find("main").First()
	if main.Length() == 0 {
		logger.WarnObj("article page has no main container", "url", header.URL)
		return nil, fetchFailed("document has no main content container")
	}

	longForm := doc.Find(selLongForm).First()

	resolveAuthors(&header, doc, longForm)
	resolveDate(&header, main)
	resolveReadingTime(&header, main)

	blocks := seedHeaderBlocks(header)
	seeded := len(blocks)

	// Footers inside the content region are presentational chrome.
	main.Find("footer").Remove()

	primary := main.Find("article").First()
	if longForm.Length() > 0 {
		primary = longForm
	}
	blocks = e.walkBlocks(primary, blocks)

	// Some templates skip the article wrapper entirely; rewalk the whole
	// main region only when the primary pass extracted nothing, so a
	// populated wrapper is never walked twice.
	if len(blocks) == seeded {
		blocks = e.walkBlocks(main, blocks)
	}

	return &domain.Article{Header: header, Blocks: blocks}, nil
}

func (e *Extractor) walkBlocks(container *goquery.Selection, blocks []domain.Block) []domain.Block {
	container.Children().Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, classifyBlock(s, e.flags)...)
	})
	return blocks
}

// resolveAuthors re-derives the byline from author links. Long-form pages
// credit authors inside the long-form wrapper and that credit always wins
// over the meta value; elsewhere the document-wide scan only replaces a
// missing or publication-default byline.
func resolveAuthors(h *domain.Header, doc *goquery.Document, longForm *goquery.Selection) {
	if longForm.Length() > 0 {
		h.Authors = joinAuthorLinks(longForm)
		return
	}
	if h.Authors == "" || h.Authors == defaultPublisher {
		h.Authors = joinAuthorLinks(doc.Selection)
	}
}

func joinAuthorLinks(s *goquery.Selection) string {
	var names []string
	s.Find(selAuthorLink).Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			names = append(names, name)
		}
	})
	return strings.Join(names, ", ")
}

func resolveDate(h *domain.Header, main *goquery.Selection) {
	date := strings.TrimSpace(main.Find(selDate).First().Text())
	if date == "" {
		date = strings.TrimSpace(main.Find(selPublisherLine).First().Text())
	}
	if date != "" {
		h.Date = date
	}
}

func resolveReadingTime(h *domain.Header, main *goquery.Selection) {
	raw := strings.TrimSpace(main.Find(selReadingTime).First().Text())
	if raw == "" {
		return
	}
	h.ReadingTime = stripReadingLabel(raw)
}

func stripReadingLabel(s string) string {
	if rest, ok := strings.CutPrefix(s, readingTimeLabel); ok {
		return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(rest), ":"))
	}
	return s
}

// seedHeaderBlocks builds the summary blocks that precede body content.
func seedHeaderBlocks(h domain.Header) []domain.Block {
	blocks := []domain.Block{{Kind: domain.BlockDescription, Text: h.Description}}
	if h.Authors != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockAuthors, Text: h.Authors})
	}
	if h.Date != "" || h.ReadingTime != "" {
		blocks = append(blocks, domain.Block{
			Kind: domain.BlockDateReadingTime,
			Text: joinDateReadingTime(h.Date, h.ReadingTime),
		})
	}
	return blocks
}

func joinDateReadingTime(date, readingTime string) string {
	switch {
	case date == "":
		return readingTime
	case readingTime == "":
		return date
	default:
		return date + " · " + readingTime
	}
}
