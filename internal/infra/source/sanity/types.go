package sanity

import (
	"strings"
	"time"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/richtext"
)

// QueryResponse is the envelope of the GROQ HTTP query API.
type QueryResponse[T any] struct {
	Query  string `json:"query"`
	Result T      `json:"result"`
	Ms     int    `json:"ms"`
}

// ArticleDoc is an article projected by articleFields.
type ArticleDoc struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt string     `json:"publishedAt"`
	Featured    bool       `json:"featured"`
	ReadingTime int        `json:"readingTime"`
	ImageURL    string     `json:"imageUrl"`
	Author      string     `json:"author"`
	Categories  []string   `json:"categories"`
	Tags        []string   `json:"tags"`
	Body        []BodyNode `json:"body,omitempty"`
}

// ToolDoc is an AI tool projected by toolFields.
type ToolDoc struct {
	ID               string   `json:"_id"`
	CreatedAt        string   `json:"_createdAt"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	ShortDescription string   `json:"shortDescription"`
	Category         string   `json:"category"`
	PriceType        string   `json:"priceType"`
	Price            any      `json:"price"`
	Discount         any      `json:"discount"`
	Rating           *float64 `json:"rating"`
	Featured         bool     `json:"featured"`
	UsersCount       any      `json:"usersCount"`
	AffiliateURL     string   `json:"affiliateUrl"`
	IconURL          string   `json:"iconUrl"`
	Tags             []string `json:"tags"`
}

// CategoryDoc is a category projected by categoriesQuery.
type CategoryDoc struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ToDomain maps the document to a domain.Category.
func (d *CategoryDoc) ToDomain() domain.Category {
	return domain.Category{
		Slug:        d.Slug,
		Title:       d.Title,
		Description: d.Description,
	}
}

// BodyNode is one Portable Text node: a text block, an image or a code block.
type BodyNode struct {
	Type     string     `json:"_type"`
	Style    string     `json:"style,omitempty"`
	ListItem string     `json:"listItem,omitempty"`
	Children []SpanNode `json:"children,omitempty"`
	MarkDefs []MarkDef  `json:"markDefs,omitempty"`

	// image
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`

	// code
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

// SpanNode is an inline run of text inside a block.
type SpanNode struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced by span marks, such as a link.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// ToDomain converts an ArticleDoc to a ContentItem.
func (d *ArticleDoc) ToDomain(sourceName string) domain.ContentItem {
	item := domain.ContentItem{
		ID:          d.ID,
		Source:      sourceName,
		ExternalID:  d.ID,
		Collection:  domain.CollectionArticles,
		Slug:        d.Slug,
		Title:       d.Title,
		Excerpt:     d.Excerpt,
		PublishedAt: parseTime(d.PublishedAt),
		Categories:  compact(d.Categories),
		Tags:        compact(d.Tags),
		Featured:    d.Featured,
		Author:      d.Author,
		ImageURL:    d.ImageURL,
		ReadingTime: d.ReadingTime,
	}
	if len(d.Body) > 0 {
		item.Body = richtext.Render(BodyToBlocks(d.Body))
	}

	return item
}

// ToDomain converts a ToolDoc to a ContentItem. Tools carry no publication
// date; their creation time stands in for recency.
func (d *ToolDoc) ToDomain(sourceName string) domain.ContentItem {
	item := domain.ContentItem{
		ID:          d.ID,
		Source:      sourceName,
		ExternalID:  d.ID,
		Collection:  domain.CollectionTools,
		Slug:        d.Slug,
		Title:       d.Name,
		Excerpt:     d.ShortDescription,
		PublishedAt: parseTime(d.CreatedAt),
		Tags:        compact(d.Tags),
		Featured:    d.Featured,
		Rating:      d.Rating,
		PriceType:   domain.PriceType(strings.ToLower(d.PriceType)),
		ImageURL:    d.IconURL,
	}
	if d.Category != "" {
		item.Categories = []string{d.Category}
	}

	payload := map[string]any{}
	for k, v := range map[string]any{
		"price":       d.Price,
		"discount":    d.Discount,
		"users_count": d.UsersCount,
	} {
		if v != nil && v != "" {
			payload[k] = v
		}
	}
	if d.AffiliateURL != "" {
		payload["affiliate_url"] = d.AffiliateURL
	}
	if len(payload) > 0 {
		item.Payload = payload
	}

	return item
}

// BodyToBlocks maps Portable Text nodes to backend-neutral blocks.
func BodyToBlocks(nodes []BodyNode) []richtext.Block {
	blocks := make([]richtext.Block, 0, len(nodes))

	for _, n := range nodes {
		switch n.Type {
		case "image":
			blocks = append(blocks, richtext.Block{Type: richtext.BlockImage, URL: n.URL, Caption: n.Alt})
		case "code":
			blocks = append(blocks, richtext.Block{
				Type:     richtext.BlockCode,
				Language: n.Language,
				Spans:    []richtext.Span{{Text: n.Code}},
			})
		case "block":
			blocks = append(blocks, textBlock(n))
		}
	}

	return blocks
}

func textBlock(n BodyNode) richtext.Block {
	links := make(map[string]string, len(n.MarkDefs))
	for _, def := range n.MarkDefs {
		if def.Type == "link" {
			links[def.Key] = def.Href
		}
	}

	spans := make([]richtext.Span, 0, len(n.Children))
	for _, child := range n.Children {
		span := richtext.Span{Text: child.Text}
		for _, mark := range child.Marks {
			switch mark {
			case "strong":
				span.Bold = true
			case "em":
				span.Italic = true
			case "code":
				span.Code = true
			default:
				if href, ok := links[mark]; ok {
					span.Href = href
				}
			}
		}
		spans = append(spans, span)
	}

	block := richtext.Block{Type: richtext.BlockParagraph, Spans: spans}
	switch {
	case n.ListItem == "bullet":
		block.Type = richtext.BlockBullet
	case n.ListItem == "number":
		block.Type = richtext.BlockNumbered
	case n.Style == "blockquote":
		block.Type = richtext.BlockQuote
	case len(n.Style) == 2 && n.Style[0] == 'h' && n.Style[1] >= '1' && n.Style[1] <= '6':
		block.Type = richtext.BlockHeading
		block.Level = int(n.Style[1] - '0')
	}

	return block
}

// parseTime accepts RFC 3339 timestamps and plain dates. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}

	return time.Time{}
}

// compact drops empty values left by dangling references.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}

	return out
}
