package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestExtractMetaDefaultsOnEmptyDocument(t *testing.T) {
	header := extractMeta(mustDoc(t, `<html><head></head><body></body></html>`))

	if header.Title != "" || header.Description != "" || header.URL != "" {
		t.Fatalf("expected empty defaults, got %#v", header)
	}
	if header.Restricted {
		t.Fatalf("expected restricted to default to false")
	}
}

func TestExtractMetaMapsKnownProperties(t *testing.T) {
	header := extractMeta(mustDoc(t, `
<html><head>
  <meta property="og:title" content="Une élection sous tension">
  <meta property="og:description" content="Le récit de la soirée">
  <meta property="og:url" content="https://www.lemonde.fr/politique/article/2026/05/01/une-election.html">
  <meta property="og:image" content="https://img.lemde.fr/800/450/photo.jpg">
  <meta property="og:article:section" content="Politique">
  <meta property="og:article:author" content="Jeanne Martin">
  <meta property="og:article:content_tier" content="locked">
  <meta property="og:article:id" content="6543210">
  <meta property="x:unknown" content="ignored">
  <meta property="orphan-without-content">
</head></html>`))

	if header.Title != "Une élection sous tension" {
		t.Fatalf("title = %q", header.Title)
	}
	if header.Category != "Politique" || header.Authors != "Jeanne Martin" {
		t.Fatalf("unexpected category/authors %#v", header)
	}
	if !header.Restricted {
		t.Fatalf("expected restricted for locked content tier")
	}
	if header.ID != "6543210" {
		t.Fatalf("id = %q", header.ID)
	}
}

func TestExtractMetaLastOccurrenceWins(t *testing.T) {
	header := extractMeta(mustDoc(t, `
<html><head>
  <meta property="og:title" content="First">
  <meta property="og:title" content="Second">
</head></html>`))

	if header.Title != "Second" {
		t.Fatalf("expected last occurrence to win, got %q", header.Title)
	}
}

func TestExtractMetaImageRatio(t *testing.T) {
	header := extractMeta(mustDoc(t, `
<html><head>
  <meta property="og:image" content="https://img.lemde.fr/photo.jpg">
  <meta property="og:image:width" content="800">
  <meta property="og:image:height" content="450">
</head></html>`))

	want := 450.0 / 800.0
	if header.ImageRatio != want {
		t.Fatalf("ratio = %v, want %v", header.ImageRatio, want)
	}
}

func TestExtractMetaImageRatioSkippedWhenIncomplete(t *testing.T) {
	cases := map[string]string{
		"missing height": `<meta property="og:image" content="x.jpg"><meta property="og:image:width" content="800">`,
		"zero width":     `<meta property="og:image" content="x.jpg"><meta property="og:image:width" content="0"><meta property="og:image:height" content="450">`,
		"non-numeric":    `<meta property="og:image" content="x.jpg"><meta property="og:image:width" content="large"><meta property="og:image:height" content="450">`,
	}

	for name, head := range cases {
		header := extractMeta(mustDoc(t, "<html><head>"+head+"</head></html>"))
		if header.ImageRatio != 0 {
			t.Fatalf("%s: expected no ratio, got %v", name, header.ImageRatio)
		}
	}
}

func TestExtractMetaNameAttributeFallback(t *testing.T) {
	header := extractMeta(mustDoc(t, `
<html><head>
  <meta name="og:description" content="Chapo de secours">
</head></html>`))

	if header.Description != "Chapo de secours" {
		t.Fatalf("description = %q", header.Description)
	}
}
