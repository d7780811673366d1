// Package richtext renders CMS block content to sanitized HTML.
package richtext

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// BlockType is the structural kind of a content block.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockBullet    BlockType = "bullet"
	BlockNumbered  BlockType = "numbered"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockImage     BlockType = "image"
	BlockDivider   BlockType = "divider"
)

// Span is a run of text sharing the same inline marks.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Href   string
}

// Block is one backend-neutral unit of rich content.
type Block struct {
	Type     BlockType
	Level    int // heading level, 1..6
	Spans    []Span
	Language string // code blocks
	URL      string // images
	Caption  string // image alt text
}

// PlainText concatenates the text of every span.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}

	return sb.String()
}

// Render converts blocks to HTML. Consecutive list items share one list element.
// Output is not sanitized; pass it through a Sanitizer before serving.
func Render(blocks []Block) string {
	var sb strings.Builder
	var openList BlockType

	closeList := func() {
		switch openList {
		case BlockBullet:
			sb.WriteString("</ul>")
		case BlockNumbered:
			sb.WriteString("</ol>")
		}
		openList = ""
	}

	for _, b := range blocks {
		if openList != "" && b.Type != openList {
			closeList()
		}

		switch b.Type {
		case BlockHeading:
			level := min(max(b.Level, 1), 6)
			tag := "h" + strconv.Itoa(level)
			sb.WriteString("<" + tag + ">" + renderSpans(b.Spans) + "</" + tag + ">")
		case BlockBullet, BlockNumbered:
			if openList == "" {
				openList = b.Type
				if b.Type == BlockBullet {
					sb.WriteString("<ul>")
				} else {
					sb.WriteString("<ol>")
				}
			}
			sb.WriteString("<li>" + renderSpans(b.Spans) + "</li>")
		case BlockQuote:
			sb.WriteString("<blockquote>" + renderSpans(b.Spans) + "</blockquote>")
		case BlockCode:
			sb.WriteString("<pre><code")
			if b.Language != "" {
				sb.WriteString(` class="language-` + html.EscapeString(b.Language) + `"`)
			}
			sb.WriteString(">" + html.EscapeString(b.PlainText()) + "</code></pre>")
		case BlockImage:
			if b.URL == "" {
				continue
			}
			sb.WriteString(`<figure><img src="` + html.EscapeString(b.URL) + `" alt="` + html.EscapeString(b.Caption) + `">`)
			if b.Caption != "" {
				sb.WriteString("<figcaption>" + html.EscapeString(b.Caption) + "</figcaption>")
			}
			sb.WriteString("</figure>")
		case BlockDivider:
			sb.WriteString("<hr>")
		default:
			if text := renderSpans(b.Spans); text != "" {
				sb.WriteString("<p>" + text + "</p>")
			}
		}
	}
	closeList()

	return sb.String()
}

func renderSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>")
		if s.Code {
			text = "<code>" + text + "</code>"
		}
		if s.Italic {
			text = "<em>" + text + "</em>"
		}
		if s.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if s.Href != "" {
			text = `<a href="` + html.EscapeString(s.Href) + `">` + text + "</a>"
		}
		sb.WriteString(text)
	}

	return sb.String()
}

// Sanitizer strips unsafe markup from rendered bodies.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer based on the UGC policy. Links get
// rel=nofollow and external links open in a new tab.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
	p.AllowElements("figure", "figcaption")

	return &Sanitizer{policy: p}
}

// Sanitize returns the sanitized, trimmed HTML.
func (s *Sanitizer) Sanitize(body string) string {
	return strings.TrimSpace(s.policy.Sanitize(body))
}
