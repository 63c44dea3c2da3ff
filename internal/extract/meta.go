package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

// metaAssigners maps meta property names to header field assignments.
// Later occurrences of the same property overwrite earlier ones.
var metaAssigners = map[string]func(*domain.Header, string){
	"og:title":           func(h *domain.Header, v string) { h.Title = v },
	"og:description":     func(h *domain.Header, v string) { h.Description = v },
	"og:url":             func(h *domain.Header, v string) { h.URL = v },
	"og:image":           func(h *domain.Header, v string) { h.ImageURL = v },
	"og:article:section": func(h *domain.Header, v string) { h.Category = v },
	"og:article:author":  func(h *domain.Header, v string) { h.Authors = v },
	"og:article:content_tier": func(h *domain.Header, v string) {
		h.Restricted = v == "locked"
	},
	"og:article:id": func(h *domain.Header, v string) { h.ID = v },
}

// extractMeta reads every meta node of the document into a Header.
// Unmapped properties are ignored; an empty document yields an
// all-default header. It never fails.
func extractMeta(doc *goquery.Document) domain.Header {
	var header domain.Header

	metas := doc.Find("meta")
	metas.Each(func(_ int, s *goquery.Selection) {
		prop, ok := metaProperty(s)
		if !ok {
			return
		}
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if assign, known := metaAssigners[prop]; known {
			assign(&header, content)
		}
	})

	if header.ImageURL != "" {
		width := metaInt(metas, "og:image:width")
		height := metaInt(metas, "og:image:height")
		if width != 0 && height != 0 {
			header.ImageRatio = float64(height) / float64(width)
		}
	}

	return header
}

// metaProperty reads the property attribute, falling back to name.
func metaProperty(s *goquery.Selection) (string, bool) {
	if prop, ok := s.Attr("property"); ok {
		return prop, true
	}
	if name, ok := s.Attr("name"); ok {
		return name, true
	}
	return "", false
}

// metaInt returns the integer content of the last meta node carrying the
// given property, or 0 when absent or non-numeric.
func metaInt(metas *goquery.Selection, prop string) int {
	value := 0
	metas.Each(func(_ int, s *goquery.Selection) {
		p, ok := metaProperty(s)
		if !ok || p != prop {
			return
		}
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(content)); err == nil {
			value = n
		}
	})
	return value
}
