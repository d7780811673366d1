package postgres

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"promptlab-content-service/internal/domain"
)

// ContentItemModel is the GORM model for the content_items table.
type ContentItemModel struct {
	ID         string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source     string `gorm:"type:varchar(50);not null;uniqueIndex:uq_content_items_source_external"`
	ExternalID string `gorm:"type:varchar(200);not null;uniqueIndex:uq_content_items_source_external"`
	Collection string `gorm:"type:varchar(20);not null;index"`
	Slug       string `gorm:"type:varchar(300);not null"`

	Title       string         `gorm:"type:varchar(500);not null"`
	Excerpt     string         `gorm:"type:text"`
	PublishedAt *time.Time     `gorm:"type:timestamptz"`
	Categories  pq.StringArray `gorm:"type:text[]"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	Featured    bool           `gorm:"not null;default:false"`
	Rating      *float64
	PriceType   string `gorm:"type:varchar(20)"`

	Author      string `gorm:"type:varchar(200)"`
	ImageURL    string `gorm:"type:text"`
	ReadingTime int    `gorm:"default:0"`
	Body        string `gorm:"type:text"`
	Payload     string `gorm:"type:jsonb;not null;default:'{}'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ContentItemModel.
func (ContentItemModel) TableName() string {
	return "content_items"
}

// ToDomain converts the row to a ContentItem. The item keeps its upstream
// source name so mirrored listings still report where content came from.
func (m *ContentItemModel) ToDomain() domain.ContentItem {
	item := domain.ContentItem{
		ID:          m.ID,
		Source:      m.Source,
		ExternalID:  m.ExternalID,
		Collection:  domain.Collection(m.Collection),
		Slug:        m.Slug,
		Title:       m.Title,
		Excerpt:     m.Excerpt,
		Categories:  nilIfEmpty(m.Categories),
		Tags:        nilIfEmpty(m.Tags),
		Featured:    m.Featured,
		Rating:      m.Rating,
		PriceType:   domain.PriceType(m.PriceType),
		Author:      m.Author,
		ImageURL:    m.ImageURL,
		ReadingTime: m.ReadingTime,
		Body:        m.Body,
	}
	if m.PublishedAt != nil {
		item.PublishedAt = m.PublishedAt.UTC()
	}
	if m.Payload != "" && m.Payload != "{}" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(m.Payload), &payload); err == nil && len(payload) > 0 {
			item.Payload = payload
		}
	}

	return item
}

// FromDomain creates a row for item under the given source.
func FromDomain(source string, item *domain.ContentItem) (*ContentItemModel, error) {
	payload := "{}"
	if len(item.Payload) > 0 {
		raw, err := json.Marshal(item.Payload)
		if err != nil {
			return nil, err
		}
		payload = string(raw)
	}

	m := &ContentItemModel{
		Source:      source,
		ExternalID:  item.ExternalID,
		Collection:  string(item.Collection),
		Slug:        item.Slug,
		Title:       item.Title,
		Excerpt:     item.Excerpt,
		Categories:  pq.StringArray(item.Categories),
		Tags:        pq.StringArray(item.Tags),
		Featured:    item.Featured,
		Rating:      item.Rating,
		PriceType:   string(item.PriceType),
		Author:      item.Author,
		ImageURL:    item.ImageURL,
		ReadingTime: item.ReadingTime,
		Body:        item.Body,
		Payload:     payload,
	}
	if m.ExternalID == "" {
		m.ExternalID = item.ID
	}
	if !item.PublishedAt.IsZero() {
		t := item.PublishedAt.UTC()
		m.PublishedAt = &t
	}

	return m, nil
}

func nilIfEmpty(values pq.StringArray) []string {
	if len(values) == 0 {
		return nil
	}

	return []string(values)
}
