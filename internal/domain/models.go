package domain

import "time"

// Domain contains the content model produced by the extraction pipeline.

// Header carries article-level metadata read from the document head,
// opportunistically enriched by the assembler.
type Header struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"img_url,omitempty"`
	ImageRatio  float64 `json:"img_ratio,omitempty"` // height/width from meta dimensions
	Category    string  `json:"category,omitempty"`
	Authors     string  `json:"authors,omitempty"`
	Date        string  `json:"date,omitempty"`
	ReadingTime string  `json:"reading_time,omitempty"`
	Restricted  bool    `json:"restricted"`
}

// BlockKind discriminates the Block tagged union.
type BlockKind string

const (
	BlockDescription     BlockKind = "description"
	BlockAuthors         BlockKind = "authors"
	BlockDateReadingTime BlockKind = "dateReadingTime"
	BlockH1              BlockKind = "h1"
	BlockH2              BlockKind = "h2"
	BlockH3              BlockKind = "h3"
	BlockParagraph       BlockKind = "paragraph"
	BlockImage           BlockKind = "img"
	BlockList            BlockKind = "list"
	BlockSeeAlso         BlockKind = "seeAlsoButton"
	BlockVideo           BlockKind = "webview-video"
	BlockEmbed           BlockKind = "embed"
	BlockCaption         BlockKind = "caption"
	BlockQuote           BlockKind = "quote"
	BlockChip            BlockKind = "chip"
)

// Block is one renderable unit of article or live content. Exactly one
// payload field is meaningful for a given Kind.
type Block struct {
	Kind    BlockKind   `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Runs    []InlineRun `json:"runs,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Image   *Image      `json:"image,omitempty"`
	SeeAlso *SeeAlso    `json:"see_also,omitempty"`
	Video   *Video      `json:"video,omitempty"`
	Embed   *Embed      `json:"embed,omitempty"`
	Quote   *Quote      `json:"quote,omitempty"`
}

// RunKind is the style of one inline text run.
type RunKind string

const (
	RunText   RunKind = "text"
	RunEm     RunKind = "em"
	RunStrong RunKind = "strong"
)

// InlineRun is a contiguous span of single-style text inside a paragraph.
// Adjacent runs of the same kind are intentionally not merged.
type InlineRun struct {
	Kind RunKind `json:"kind"`
	Text string  `json:"text"`
}

// Image is an illustration with an optional width/height ratio derived
// from URL path segments. Ratio 0 means unknown; the renderer supplies
// its own visual default.
type Image struct {
	URI     string  `json:"uri"`
	Ratio   float64 `json:"ratio,omitempty"`
	Caption string  `json:"caption,omitempty"`
}

// SeeAlso is a link button to a related article.
type SeeAlso struct {
	Label      string `json:"label"`
	URL        string `json:"url"`
	Restricted bool   `json:"restricted"`
}

// Video identifies an embedded player. Providers outside KnownVideoProviders
// are kept in the model and ignored at render time.
type Video struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
}

// KnownVideoProviders lists the providers the renderer can actually embed.
var KnownVideoProviders = map[string]bool{
	"dailymotion": true,
	"youtube":     true,
}

// Embed is a raw iframe embed used by live posts.
type Embed struct {
	URL string `json:"url"`
}

// Quote is a reader comment quoted inside a live post.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Article is the assembled model for a standard article page.
type Article struct {
	Header Header  `json:"header"`
	Blocks []Block `json:"blocks"`
}

// LiveSection is one addressable unit of a live-blog post stream.
type LiveSection struct {
	ID     string  `json:"id"`
	Border bool    `json:"border"`
	Header string  `json:"header,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Live is the assembled model for a live-blog page. Pagination appends
// sections to the end and never reorders existing ones.
type Live struct {
	Header   Header        `json:"header"`
	Sections []LiveSection `json:"sections"`
}

// Summary is one entry of a category RSS feed.
type Summary struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date,omitempty"`
	ImageURL string `json:"img_url,omitempty"`
	Category string `json:"category,omitempty"`
}

// Favorite is a bookmarked article keyed by its canonical URL.
type Favorite struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	ImageURL string    `json:"img_url,omitempty"`
	Category string    `json:"category,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}
