package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MBach/LeMondeRssReader-sub000/internal/domain"
)

// imageDimensionsPattern matches the two integer path segments CDN image
// URLs carry, e.g. .../800/450/photo.jpg.
var imageDimensionsPattern = regexp.MustCompile(`/(\d+)/(\d+)/`)

// extractFigure resolves a figure node into an Image, or nil when no
// usable source exists. Lazy-loaded images keep their real source in
// data-src, so that attribute is the fallback.
func extractFigure(fig *goquery.Selection) *domain.Image {
	img := fig.Find("img").First()
	if img.Length() == 0 {
		return nil
	}

	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" {
		src = strings.TrimSpace(img.AttrOr("data-src", ""))
	}
	if src == "" {
		return nil
	}

	image := &domain.Image{URI: src, Ratio: imageRatio(src)}

	if caption := strings.TrimSpace(fig.Find("figcaption").First().Text()); caption != "" {
		image.Caption = caption
	}

	return image
}

// imageRatio derives width/height from URL path segments, 0 when the URL
// carries no usable dimensions.
func imageRatio(src string) float64 {
	m := imageDimensionsPattern.FindStringSubmatch(src)
	if m == nil {
		return 0
	}
	width, errW := strconv.Atoi(m[1])
	height, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil || width == 0 || height == 0 {
		return 0
	}
	return float64(width) / float64(height)
}
