package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

// inlineRuns walks the direct children of a paragraph node into an ordered
// sequence of styled runs. Only one level is inspected: nested formatting
// inside an unknown element is flattened into its text content. Runs that
// are entirely whitespace are dropped; kept text is left raw so spacing
// between runs survives. Adjacent same-style runs are not merged.
func inlineRuns(s *goquery.Selection) []domain.InlineRun {
	var runs []domain.InlineRun

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		if node == nil {
			return
		}

		var run domain.InlineRun
		switch {
		case node.Type == html.TextNode:
			run = domain.InlineRun{Kind: domain.RunText, Text: node.Data}
		case node.Type != html.ElementNode:
			return
		case node.Data == "em":
			run = domain.InlineRun{Kind: domain.RunEm, Text: child.Text()}
		case node.Data == "strong":
			run = domain.InlineRun{Kind: domain.RunStrong, Text: child.Text()}
		default:
			run = domain.InlineRun{Kind: domain.RunText, Text: child.Text()}
		}

		if strings.TrimSpace(run.Text) == "" {
			return
		}
		runs = append(runs, run)
	})

	return runs
}
