package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
	"github.com/MBach/LeMondeRssReader-sub000/internal/logger"
	"github.com/MBach/LeMondeRssReader-sub000/pkg/httpclient"
)

const (
	// liveSectionThreshold is the section count above which pagination
	// becomes available.
	liveSectionThreshold = 10

	selPostContainer = "#post-container"
	selHeroTitle     = ".article__heading h1"
	selHeroDesc      = ".article__heading .article__desc"
	selBorderFlag    = ".flag-live__border[style]"
	selInfoLabel     = ".info-content"
	selPrimaryList   = ".post__live-container"
	selSecondaryList = ".content--live"

	classAnswerText     = "post__live-container--answer-text"
	classComment        = "post__live-container--comment"
	selCommentAuthor    = ".post__live-container--comment-author"
	classReadMoreLive   = "js-live-read-more"
	classReadMoreLegacy = "lmd-link-read-more"
	classChipLabel      = "flag-live__label"
)

// LiveFeed serves raw HTML fragments for live-blog pagination.
type LiveFeed interface {
	After(ctx context.Context, articleID, lastSectionID string) ([]string, error)
}

// HTTPLiveFeed fetches pagination fragments from the publication's ajax
// endpoint.
type HTTPLiveFeed struct {
	client  httpclient.Client
	baseURL string
}

// NewHTTPLiveFeed builds a live feed rooted at baseURL.
func NewHTTPLiveFeed(client httpclient.Client, baseURL string) *HTTPLiveFeed {
	return &HTTPLiveFeed{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// After returns the HTML fragments published after the given section. An
// empty list means no more content.
func (f *HTTPLiveFeed) After(ctx context.Context, articleID, lastSectionID string) ([]string, error) {
	url := fmt.Sprintf("%s/ajax/live/%s/after/%s", f.baseURL, articleID, lastSectionID)

	resp, err := f.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch live fragments: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("live feed returned status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	var payload struct {
		Elements []string `json:"elements"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode live fragments: %w", err)
	}
	return payload.Elements, nil
}

// Live fetches and assembles a live-blog page.
func (e *Extractor) Live(ctx context.Context, link string) (*domain.Live, error) {
	doc, err := e.fetchDocument(ctx, link)
	if err != nil {
		return nil, err
	}
	return e.assembleLive(doc)
}

// LiveFromHTML assembles a live-blog page from already-fetched markup.
func (e *Extractor) LiveFromHTML(body []byte) (*domain.Live, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	return e.assembleLive(doc)
}

func (e *Extractor) assembleLive(doc *goquery.Document) (*domain.Live, error) {
	header := extractMeta(doc)

	var sections []domain.LiveSection
	if hero := heroSection(doc); hero != nil {
		sections = append(sections, *hero)
	}

	container := doc.Find(selPostContainer).First()
	if container.Length() == 0 {
		logger.WarnObj("live page has no post container", "url", header.URL)
		return &domain.Live{Header: header, Sections: sections}, nil
	}

	container.ChildrenFiltered("section").Each(func(_ int, s *goquery.Selection) {
		if sec := e.extractSection(s); sec != nil {
			sections = append(sections, *sec)
		}
	})

	return &domain.Live{Header: header, Sections: sections}, nil
}

// heroSection lifts the page title and subtitle into an optional zeroth
// section carrying no id or border.
func heroSection(doc *goquery.Document) *domain.LiveSection {
	title := strings.TrimSpace(doc.Find(selHeroTitle).First().Text())
	desc := strings.TrimSpace(doc.Find(selHeroDesc).First().Text())
	if title == "" && desc == "" {
		return nil
	}

	var blocks []domain.Block
	if title != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockH1, Text: title})
	}
	if desc != "" {
		blocks = append(blocks, domain.Block{Kind: domain.BlockDescription, Text: desc})
	}
	return &domain.LiveSection{Blocks: blocks}
}

// extractSection maps one post node to a section, or nil when nothing
// extractable remains. Content-less sections are dropped, not emitted.
func (e *Extractor) extractSection(s *goquery.Selection) *domain.LiveSection {
	sec := domain.LiveSection{
		ID:     s.AttrOr("id", ""),
		Border: s.Find(selBorderFlag).Length() > 0,
		Header: strings.TrimSpace(s.Find(selInfoLabel).First().Text()),
	}

	// Standard and social layouts are mutually exclusive renderings of
	// the same slot; try the social list only when the standard one is
	// empty.
	candidates := s.Find(selPrimaryList).First().Children()
	if candidates.Length() == 0 {
		candidates = s.Find(selSecondaryList).First().Children()
	}

	candidates.Each(func(_ int, c *goquery.Selection) {
		sec.Blocks = append(sec.Blocks, e.classifyLiveBlock(c)...)
	})

	if len(sec.Blocks) == 0 {
		return nil
	}
	return &sec
}

var liveRules = []blockRule{
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "p") && s.HasClass(classAnswerText) },
		extract: extractParagraph,
	},
	{
		match:   func(s *goquery.Selection) bool { return s.HasClass(classComment) },
		extract: extractCommentQuote,
	},
	{
		match: func(s *goquery.Selection) bool {
			return isTag(s, "a") && (s.HasClass(classReadMoreLive) || s.HasClass(classReadMoreLegacy))
		},
		extract: extractReadMore,
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "iframe") },
		extract: extractIframeEmbed,
	},
	{
		match:   func(s *goquery.Selection) bool { return s.HasClass(classChipLabel) },
		extract: extractChip,
	},
}

// classifyLiveBlock recognizes the live-only node shapes before falling
// back to the shared article rules.
func (e *Extractor) classifyLiveBlock(s *goquery.Selection) []domain.Block {
	for _, rule := range liveRules {
		if rule.match(s) {
			return rule.extract(s, e.flags)
		}
	}
	return classifyBlock(s, e.flags)
}

// extractCommentQuote emits a reader comment only when both the quote and
// its author are present; either missing drops the block.
func extractCommentQuote(s *goquery.Selection, _ Flags) []domain.Block {
	text := strings.TrimSpace(s.Find("blockquote").First().Text())
	author := strings.TrimSpace(s.Find(selCommentAuthor).First().Text())
	if text == "" || author == "" {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockQuote, Quote: &domain.Quote{Text: text, Author: author}}}
}

func extractReadMore(s *goquery.Selection, _ Flags) []domain.Block {
	href := strings.TrimSpace(s.AttrOr("href", ""))
	if href == "" {
		return nil
	}
	label := strings.TrimSpace(s.Text())
	if label == "" {
		label = href
	}
	return []domain.Block{{
		Kind: domain.BlockSeeAlso,
		SeeAlso: &domain.SeeAlso{
			Label:      label,
			URL:        href,
			Restricted: s.AttrOr("data-premium", "") == "1",
		},
	}}
}

func extractIframeEmbed(s *goquery.Selection, _ Flags) []domain.Block {
	src := strings.TrimSpace(s.AttrOr("data-src", ""))
	if src == "" {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockEmbed, Embed: &domain.Embed{URL: src}}}
}

func extractChip(s *goquery.Selection, _ Flags) []domain.Block {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockChip, Text: text}}
}

// MoreSections fetches the sections published after the last known one.
// It is a no-op until the section count clears the pagination threshold,
// and when the page carries no article id. Existing sections are never
// mutated; only the newly extracted ones are returned.
func (e *Extractor) MoreSections(ctx context.Context, live *domain.Live) ([]domain.LiveSection, error) {
	if e.feed == nil || live == nil {
		return nil, nil
	}
	if len(live.Sections) <= liveSectionThreshold || live.Header.ID == "" {
		return nil, nil
	}

	lastID := lastSectionID(live.Sections)
	if lastID == "" {
		return nil, nil
	}

	fragments, err := e.feed.After(ctx, live.Header.ID, lastID)
	if err != nil {
		return nil, fetchFailed("live pagination: %v", err)
	}

	var added []domain.LiveSection
	for _, fragment := range fragments {
		doc, err := parseDocument([]byte(fragment))
		if err != nil {
			logger.WarnObj("skipping unparseable live fragment", "error", err.Error())
			continue
		}
		node := doc.Find("section").First()
		if node.Length() == 0 {
			continue
		}
		if sec := e.extractSection(node); sec != nil {
			added = append(added, *sec)
		}
	}
	return added, nil
}

func lastSectionID(sections []domain.LiveSection) string {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].ID != "" {
			return sections[i].ID
		}
	}
	return ""
}
