package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

const liveSectionHTML = `<section id="post-1">
  <div class="flag-live"><span class="flag-live__border" style="background-color:#ffb15e"></span></div>
  <div class="info-content">L'essentiel</div>
  <div class="post__live-container">
    <p class="post__live-container--answer-text">Bonjour à <em>toutes et tous</em></p>
    <div class="post__live-container--comment">
      <blockquote>Quand aura lieu le vote ?</blockquote>
      <span class="post__live-container--comment-author">Lecteur78</span>
    </div>
    <a class="js-live-read-more" href="/article/contexte" data-premium="1">Comprendre le contexte</a>
    <iframe data-src="https://embed.lemde.fr/graph-42"></iframe>
    <span class="flag-live__label">Essentiel</span>
  </div>
</section>`

func livePage(sections string) []byte {
	return []byte(`<html>
<head>
  <meta property="og:title" content="En direct">
  <meta property="og:article:id" content="42">
</head>
<body><div id="post-container">` + sections + `</div></body></html>`)
}

func TestLiveSectionExtraction(t *testing.T) {
	extractor := NewExtractor(nil, nil, Flags{})

	live, err := extractor.LiveFromHTML(livePage(liveSectionHTML))
	if err != nil {
		t.Fatalf("LiveFromHTML: %v", err)
	}
	if len(live.Sections) != 1 {
		t.Fatalf("expected one section, got %#v", live.Sections)
	}

	sec := live.Sections[0]
	if sec.ID != "post-1" || !sec.Border || sec.Header != "L'essentiel" {
		t.Fatalf("unexpected section envelope %#v", sec)
	}

	kinds := make([]domain.BlockKind, 0, len(sec.Blocks))
	for _, b := range sec.Blocks {
		kinds = append(kinds, b.Kind)
	}
	want := []domain.BlockKind{
		domain.BlockParagraph,
		domain.BlockQuote,
		domain.BlockSeeAlso,
		domain.BlockEmbed,
		domain.BlockChip,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}

	if q := sec.Blocks[1].Quote; q.Text != "Quand aura lieu le vote ?" || q.Author != "Lecteur78" {
		t.Fatalf("quote = %#v", q)
	}
	if sa := sec.Blocks[2].SeeAlso; !sa.Restricted || sa.URL != "/article/contexte" {
		t.Fatalf("see-also = %#v", sa)
	}
}

func TestLiveBorderRequiresStyleAttribute(t *testing.T) {
	extractor := NewExtractor(nil, nil, Flags{})

	live, err := extractor.LiveFromHTML(livePage(`<section id="p">
  <span class="flag-live__border"></span>
  <div class="post__live-container"><p class="post__live-container--answer-text">texte</p></div>
</section>`))
	if err != nil {
		t.Fatalf("LiveFromHTML: %v", err)
	}
	if live.Sections[0].Border {
		t.Fatalf("expected no border without inline style")
	}
}

func TestLiveContentlessSectionsDropped(t *testing.T) {
	extractor := NewExtractor(nil, nil, Flags{})

	// Three raw sections, one of which only carries a comment missing
	// its author span, one entirely empty.
	page := livePage(`
<section id="p1"><div class="post__live-container"><p class="post__live-container--answer-text">ok</p></div></section>
<section id="p2"><div class="post__live-container">
  <div class="post__live-container--comment"><blockquote>orpheline</blockquote></div>
</div></section>
<section id="p3"></section>`)

	live, err := extractor.LiveFromHTML(page)
	if err != nil {
		t.Fatalf("LiveFromHTML: %v", err)
	}
	if len(live.Sections) != 1 || live.Sections[0].ID != "p1" {
		t.Fatalf("expected only the contentful section, got %#v", live.Sections)
	}
}

func TestLiveSecondaryListFallback(t *testing.T) {
	extractor := NewExtractor(nil, nil, Flags{})

	live, err := extractor.LiveFromHTML(livePage(`<section id="p">
  <div class="content--live"><p class="post__live-container--answer-text">variante sociale</p></div>
</section>`))
	if err != nil {
		t.Fatalf("LiveFromHTML: %v", err)
	}
	if len(live.Sections) != 1 || len(live.Sections[0].Blocks) != 1 {
		t.Fatalf("expected secondary layout recovered, got %#v", live.Sections)
	}
}

func TestLiveHeroBecomesZerothSection(t *testing.T) {
	extractor := NewExtractor(nil, nil, Flags{})

	page := []byte(`<html><body>
<div class="article__heading"><h1>Élections en direct</h1><p class="article__desc">Suivez la soirée</p></div>
<div id="post-container">
<section id="p1"><div class="post__live-container"><p class="post__live-container--answer-text">ok</p></div></section>
</div></body></html>`)

	live, err := extractor.LiveFromHTML(page)
	if err != nil {
		t.Fatalf("LiveFromHTML: %v", err)
	}
	if len(live.Sections) != 2 {
		t.Fatalf("expected hero + one post, got %#v", live.Sections)
	}

	hero := live.Sections[0]
	if hero.ID != "" || hero.Border {
		t.Fatalf("hero must carry no id or border, got %#v", hero)
	}
	if hero.Blocks[0].Kind != domain.BlockH1 || hero.Blocks[0].Text != "Élections en direct" {
		t.Fatalf("hero blocks = %#v", hero.Blocks)
	}
}

// stubLiveFeed records pagination requests.
type stubLiveFeed struct {
	fragments []string
	err       error

	gotArticleID string
	gotLastID    string
	calls        int
}

func (s *stubLiveFeed) After(_ context.Context, articleID, lastSectionID string) ([]string, error) {
	s.calls++
	s.gotArticleID = articleID
	s.gotLastID = lastSectionID
	return s.fragments, s.err
}

func manySections(n int) []domain.LiveSection {
	sections := make([]domain.LiveSection, 0, n)
	for i := 1; i <= n; i++ {
		sections = append(sections, domain.LiveSection{
			ID:     fmt.Sprintf("post-%d", i),
			Blocks: []domain.Block{{Kind: domain.BlockChip, Text: "x"}},
		})
	}
	return sections
}

func TestMoreSectionsBelowThresholdIsNoop(t *testing.T) {
	feed := &stubLiveFeed{fragments: []string{liveSectionHTML}}
	extractor := NewExtractor(nil, feed, Flags{})

	live := &domain.Live{Header: domain.Header{ID: "42"}, Sections: manySections(10)}
	added, err := extractor.MoreSections(context.Background(), live)
	if err != nil || added != nil {
		t.Fatalf("expected noop below threshold, got %v %v", added, err)
	}
	if feed.calls != 0 {
		t.Fatalf("feed must not be called below threshold")
	}
}

func TestMoreSectionsRequiresArticleID(t *testing.T) {
	feed := &stubLiveFeed{fragments: []string{liveSectionHTML}}
	extractor := NewExtractor(nil, feed, Flags{})

	live := &domain.Live{Sections: manySections(12)}
	if added, err := extractor.MoreSections(context.Background(), live); err != nil || added != nil {
		t.Fatalf("expected noop without article id, got %v %v", added, err)
	}
}

func TestMoreSectionsAppendsWithoutMutating(t *testing.T) {
	feed := &stubLiveFeed{fragments: []string{liveSectionHTML}}
	extractor := NewExtractor(nil, feed, Flags{})

	live := &domain.Live{Header: domain.Header{ID: "42"}, Sections: manySections(12)}
	added, err := extractor.MoreSections(context.Background(), live)
	if err != nil {
		t.Fatalf("MoreSections: %v", err)
	}
	if len(added) != 1 || added[0].ID != "post-1" {
		t.Fatalf("added = %#v", added)
	}
	if feed.gotArticleID != "42" || feed.gotLastID != "post-12" {
		t.Fatalf("feed keyed on %q/%q", feed.gotArticleID, feed.gotLastID)
	}
	if len(live.Sections) != 12 {
		t.Fatalf("existing sections must not be mutated")
	}
}

func TestMoreSectionsEmptyResponseMeansNoMoreContent(t *testing.T) {
	feed := &stubLiveFeed{}
	extractor := NewExtractor(nil, feed, Flags{})

	live := &domain.Live{Header: domain.Header{ID: "42"}, Sections: manySections(12)}
	before := make([]string, len(live.Sections))
	for i, s := range live.Sections {
		before[i] = s.ID
	}

	added, err := extractor.MoreSections(context.Background(), live)
	if err != nil || len(added) != 0 {
		t.Fatalf("expected silent end of content, got %v %v", added, err)
	}
	for i, s := range live.Sections {
		if s.ID != before[i] {
			t.Fatalf("section order changed at %d", i)
		}
	}
}

func TestMoreSectionsFeedErrorIsFetchFailed(t *testing.T) {
	feed := &stubLiveFeed{err: errors.New("gateway timeout")}
	extractor := NewExtractor(nil, feed, Flags{})

	live := &domain.Live{Header: domain.Header{ID: "42"}, Sections: manySections(12)}
	if _, err := extractor.MoreSections(context.Background(), live); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}
