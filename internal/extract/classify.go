package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

// Flags are the externally supplied feature toggles gating optional
// content emission.
type Flags struct {
	AllowSeeAlso        bool
	RestrictedHighlight bool
}

const (
	classParagraph      = "article__paragraph"
	classMultimedia     = "multimedia-embed"
	classTweet          = "twitter-tweet"
	videoContainerClass = "article__video-container"
	playerSelector      = ".js_player"
	catcherSelector     = ".catcher__content .catcher__desc .js-article-read-also"
)

// blockRule pairs a node predicate with its extractor. Rules are evaluated
// top to bottom and the first match wins, so more specific class-based
// matches must precede bare tag matches.
type blockRule struct {
	match   func(s *goquery.Selection) bool
	extract func(s *goquery.Selection, flags Flags) []domain.Block
}

var blockRules = []blockRule{
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "div") && s.HasClass(classMultimedia) },
		extract: extractMultimediaEmbed,
	},
	{
		// Tweet embeds are deliberately unhandled.
		match:   func(s *goquery.Selection) bool { return isTag(s, "div") && s.HasClass(classTweet) },
		extract: func(*goquery.Selection, Flags) []domain.Block { return nil },
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "div") && hasClassPrefix(s, videoContainerClass) },
		extract: extractVideo,
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "h2") },
		extract: headingExtractor(domain.BlockH2),
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "h3") },
		extract: headingExtractor(domain.BlockH3),
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "p") && s.HasClass(classParagraph) },
		extract: extractParagraph,
	},
	{
		match: func(s *goquery.Selection) bool {
			return isTag(s, "section") && s.Find(catcherSelector).Length() > 0
		},
		extract: extractSeeAlso,
	},
	{
		match:   func(s *goquery.Selection) bool { return isTag(s, "ul") },
		extract: extractList,
	},
	{
		match: func(s *goquery.Selection) bool { return isTag(s, "figure") },
		extract: func(s *goquery.Selection, _ Flags) []domain.Block {
			return imageBlock(extractFigure(s))
		},
	},
}

// classifyBlock maps one markup node to its content blocks. Nodes that
// match no rule, or match a rule that yields nothing, contribute no
// content; that is expected and frequent, not an error.
func classifyBlock(s *goquery.Selection, flags Flags) []domain.Block {
	for _, rule := range blockRules {
		if rule.match(s) {
			return rule.extract(s, flags)
		}
	}
	return nil
}

func isTag(s *goquery.Selection, name string) bool {
	return goquery.NodeName(s) == name
}

// hasClassPrefix reports whether any class of the node starts with prefix.
// Template revisions suffix modifier strings onto these classes, so exact
// membership tests miss them.
func hasClassPrefix(s *goquery.Selection, prefix string) bool {
	for _, class := range strings.Fields(s.AttrOr("class", "")) {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}

func headingExtractor(kind domain.BlockKind) func(*goquery.Selection, Flags) []domain.Block {
	return func(s *goquery.Selection, _ Flags) []domain.Block {
		return []domain.Block{{Kind: kind, Text: s.Text()}}
	}
}

func extractParagraph(s *goquery.Selection, _ Flags) []domain.Block {
	runs := inlineRuns(s)
	if len(runs) == 0 {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockParagraph, Runs: runs}}
}

// extractMultimediaEmbed descends into the wrapper's first figure. A
// wrapper whose figure resolves no image may still carry a standalone
// caption worth keeping.
func extractMultimediaEmbed(s *goquery.Selection, _ Flags) []domain.Block {
	fig := s.Find("figure").First()
	if fig.Length() == 0 {
		return nil
	}
	if blocks := imageBlock(extractFigure(fig)); blocks != nil {
		return blocks
	}
	if caption := strings.TrimSpace(fig.Find("figcaption").First().Text()); caption != "" {
		return []domain.Block{{Kind: domain.BlockCaption, Text: caption}}
	}
	return nil
}

func imageBlock(img *domain.Image) []domain.Block {
	if img == nil {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockImage, Image: img}}
}

// extractVideo emits a player embed only when both provider and id are
// present. Unknown providers are kept; the renderer ignores them.
func extractVideo(s *goquery.Selection, _ Flags) []domain.Block {
	player := s.Find(playerSelector).First()
	if player.Length() == 0 {
		return nil
	}
	provider, okProvider := player.Attr("data-provider")
	id, okID := player.Attr("data-id")
	if !okProvider || !okID {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockVideo, Video: &domain.Video{Provider: provider, ID: id}}}
}

// extractSeeAlso emits the "read also" catcher button, gated by the
// see-also feature flag.
func extractSeeAlso(s *goquery.Selection, flags Flags) []domain.Block {
	if !flags.AllowSeeAlso {
		return nil
	}
	anchor := s.Find(catcherSelector).First()
	href, ok := anchor.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil
	}

	label := strings.TrimSpace(anchor.AttrOr("title", ""))
	if label == "" {
		label = strings.TrimSpace(anchor.Text())
	}

	return []domain.Block{{
		Kind: domain.BlockSeeAlso,
		SeeAlso: &domain.SeeAlso{
			Label:      label,
			URL:        strings.TrimSpace(href),
			Restricted: anchor.AttrOr("data-premium", "") == "1",
		},
	}}
}

// extractList flattens direct li children into one list block; nested
// lists and non-li children are ignored.
func extractList(s *goquery.Selection, _ Flags) []domain.Block {
	var items []string
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, strings.TrimSpace(li.Text()))
	})
	if len(items) == 0 {
		return nil
	}
	return []domain.Block{{Kind: domain.BlockList, Items: items}}
}
