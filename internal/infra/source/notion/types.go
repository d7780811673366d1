package notion

import (
	"strings"
	"time"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/richtext"
)

// Database property names of the articles database.
const (
	propTitle       = "Título"
	propSlug        = "Slug"
	propSummary     = "Resumen"
	propTags        = "Tags"
	propCategory    = "Categoría"
	propExtraCats   = "CategoriasExtra"
	propFeatured    = "Destacado"
	propAuthor      = "Autor"
	propDate        = "Fecha"
	propCover       = "Cover"
	propReadingTime = "TiempoLectura"
	propStatus      = "Estado"

	statusReady = "Listo"
)

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// Sort orders query results by a property.
type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// Database is a database object. Only the property schema is decoded.
type Database struct {
	Object     string                    `json:"object"`
	ID         string                    `json:"id"`
	Properties map[string]PropertySchema `json:"properties"`
}

// PropertySchema describes one database property. Select and multi-select
// properties carry their option lists.
type PropertySchema struct {
	Type        string         `json:"type"`
	Select      *OptionsSchema `json:"select,omitempty"`
	MultiSelect *OptionsSchema `json:"multi_select,omitempty"`
}

// OptionsSchema lists the options defined for a select property.
type OptionsSchema struct {
	Options []Option `json:"options"`
}

// Options returns the defined option names, whichever select kind p is.
func (p PropertySchema) Options() []string {
	var opts []Option
	switch {
	case p.Select != nil:
		opts = p.Select.Options
	case p.MultiSelect != nil:
		opts = p.MultiSelect.Options
	}

	names := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}

	return names
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// BlockChildrenResponse is one page of block children.
type BlockChildrenResponse struct {
	Object     string  `json:"object"`
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is a database row.
type Page struct {
	ID          string              `json:"id"`
	CreatedTime string              `json:"created_time"`
	Cover       *File               `json:"cover,omitempty"`
	Properties  map[string]Property `json:"properties"`
}

// Property is a typed page property value. Only the field named by Type is set.
type Property struct {
	Type        string     `json:"type"`
	Title       []RichText `json:"title,omitempty"`
	RichText    []RichText `json:"rich_text,omitempty"`
	Select      *Option    `json:"select,omitempty"`
	MultiSelect []Option   `json:"multi_select,omitempty"`
	Checkbox    bool       `json:"checkbox,omitempty"`
	Date        *DateValue `json:"date,omitempty"`
	Number      *float64   `json:"number,omitempty"`
	URL         *string    `json:"url,omitempty"`
	Files       []File     `json:"files,omitempty"`
}

// RichText is an annotated run of text.
type RichText struct {
	PlainText   string       `json:"plain_text"`
	Href        *string      `json:"href,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// Annotations are inline text marks.
type Annotations struct {
	Bold   bool `json:"bold"`
	Italic bool `json:"italic"`
	Code   bool `json:"code"`
}

// Option is a select or multi-select value.
type Option struct {
	Name string `json:"name"`
}

// DateValue is a date property value.
type DateValue struct {
	Start string `json:"start"`
}

// File is an uploaded or external file reference.
type File struct {
	Type     string     `json:"type"`
	External *FileURL   `json:"external,omitempty"`
	File     *FileURL   `json:"file,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// FileURL holds the URL of a file.
type FileURL struct {
	URL string `json:"url"`
}

// URLValue returns the file URL regardless of hosting type.
func (f *File) URLValue() string {
	switch {
	case f == nil:
		return ""
	case f.External != nil:
		return f.External.URL
	case f.File != nil:
		return f.File.URL
	default:
		return ""
	}
}

// Block is a page content block. Only the field named by Type is set.
type Block struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Paragraph        *TextBlock `json:"paragraph,omitempty"`
	Heading1         *TextBlock `json:"heading_1,omitempty"`
	Heading2         *TextBlock `json:"heading_2,omitempty"`
	Heading3         *TextBlock `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock `json:"numbered_list_item,omitempty"`
	Quote            *TextBlock `json:"quote,omitempty"`
	Code             *TextBlock `json:"code,omitempty"`
	Image            *File      `json:"image,omitempty"`
	Divider          *struct{}  `json:"divider,omitempty"`
}

// TextBlock is the payload of text-bearing blocks.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// plainText joins the plain text of every run.
func plainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}

	return strings.TrimSpace(sb.String())
}

// Text returns the textual value of title, rich text, select, url or number-less properties.
func (p Property) Text() string {
	switch p.Type {
	case "title":
		return plainText(p.Title)
	case "rich_text":
		return plainText(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	case "url":
		if p.URL != nil {
			return *p.URL
		}
	case "files":
		if len(p.Files) > 0 {
			return p.Files[0].URLValue()
		}
	}

	return ""
}

// Names returns the option names of a multi-select property.
func (p Property) Names() []string {
	names := make([]string, 0, len(p.MultiSelect))
	for _, o := range p.MultiSelect {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}

	return names
}

// ToDomain converts a database row to a ContentItem.
func (p *Page) ToDomain(sourceName string) domain.ContentItem {
	props := p.Properties

	item := domain.ContentItem{
		ID:         p.ID,
		Source:     sourceName,
		ExternalID: p.ID,
		Collection: domain.CollectionArticles,
		Slug:       props[propSlug].Text(),
		Title:      props[propTitle].Text(),
		Excerpt:    props[propSummary].Text(),
		Tags:       nilIfEmpty(props[propTags].Names()),
		Featured:   props[propFeatured].Checkbox,
		Author:     props[propAuthor].Text(),
	}

	if d := props[propDate].Date; d != nil {
		item.PublishedAt = parseDate(d.Start)
	}
	if n := props[propReadingTime].Number; n != nil {
		item.ReadingTime = int(*n)
	}

	item.ImageURL = props[propCover].Text()
	if item.ImageURL == "" {
		item.ImageURL = p.Cover.URLValue()
	}

	categories := make([]string, 0, 4)
	if main := props[propCategory].Text(); main != "" {
		categories = append(categories, main)
	}
	for _, extra := range props[propExtraCats].Names() {
		if !containsFold(categories, extra) {
			categories = append(categories, extra)
		}
	}
	item.Categories = nilIfEmpty(categories)

	return item
}

// BlocksToRichText maps page blocks to backend-neutral blocks.
func BlocksToRichText(blocks []Block) []richtext.Block {
	out := make([]richtext.Block, 0, len(blocks))

	for _, b := range blocks {
		switch b.Type {
		case "paragraph":
			out = append(out, textBlock(richtext.BlockParagraph, 0, b.Paragraph))
		case "heading_1":
			out = append(out, textBlock(richtext.BlockHeading, 1, b.Heading1))
		case "heading_2":
			out = append(out, textBlock(richtext.BlockHeading, 2, b.Heading2))
		case "heading_3":
			out = append(out, textBlock(richtext.BlockHeading, 3, b.Heading3))
		case "bulleted_list_item":
			out = append(out, textBlock(richtext.BlockBullet, 0, b.BulletedListItem))
		case "numbered_list_item":
			out = append(out, textBlock(richtext.BlockNumbered, 0, b.NumberedListItem))
		case "quote":
			out = append(out, textBlock(richtext.BlockQuote, 0, b.Quote))
		case "code":
			block := textBlock(richtext.BlockCode, 0, b.Code)
			if b.Code != nil {
				block.Language = b.Code.Language
			}
			out = append(out, block)
		case "image":
			if b.Image != nil {
				out = append(out, richtext.Block{
					Type:    richtext.BlockImage,
					URL:     b.Image.URLValue(),
					Caption: plainText(b.Image.Caption),
				})
			}
		case "divider":
			out = append(out, richtext.Block{Type: richtext.BlockDivider})
		}
	}

	return out
}

func textBlock(kind richtext.BlockType, level int, tb *TextBlock) richtext.Block {
	block := richtext.Block{Type: kind, Level: level}
	if tb == nil {
		return block
	}

	for _, r := range tb.RichText {
		span := richtext.Span{Text: r.PlainText}
		if r.Href != nil {
			span.Href = *r.Href
		}
		if a := r.Annotations; a != nil {
			span.Bold, span.Italic, span.Code = a.Bold, a.Italic, a.Code
		}
		block.Spans = append(block.Spans, span)
	}

	return block
}

// parseDate accepts date-only and full timestamps.
func parseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}

	return time.Time{}
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return true
		}
	}

	return false
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	return values
}
