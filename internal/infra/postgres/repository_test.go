package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/postgres/migrations"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestDB starts a PostgreSQL container and applies the mirror migrations.
// Requires Docker; skip with go test -short.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container (is Docker running? use -short to skip): %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrations.Run(db))

	return db
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo := NewRepository(setupTestDB(t))
	repo.now = func() time.Time { return testNow }

	return repo
}

func article(id, slug string, published time.Time, categories ...string) domain.ContentItem {
	return domain.ContentItem{
		ID:          id,
		Source:      "sanity",
		ExternalID:  id,
		Collection:  domain.CollectionArticles,
		Slug:        slug,
		Title:       "Title " + slug,
		Excerpt:     "Excerpt " + slug,
		PublishedAt: published,
		Categories:  categories,
		Tags:        []string{"IA"},
		Body:        "<p>" + slug + "</p>",
	}
}

func TestReplaceCollection_InsertsAndServes(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rating := 4.2
	tool := domain.ContentItem{
		ID:         "tool-1",
		ExternalID: "tool-1",
		Collection: domain.CollectionTools,
		Slug:       "chatgpt",
		Title:      "ChatGPT",
		Rating:     &rating,
		PriceType:  domain.PriceTypeFreemium,
		Payload:    map[string]any{"affiliate_url": "https://chat.openai.com"},
	}

	n, err := repo.ReplaceCollection(ctx, "sanity", domain.CollectionArticles, []domain.ContentItem{
		article("a1", "uno", testNow.Add(-48*time.Hour), "ia"),
		article("a2", "dos", testNow.Add(-24*time.Hour), "seo"),
		article("a3", "futuro", testNow.Add(24*time.Hour), "ia"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = repo.ReplaceCollection(ctx, "sanity", domain.CollectionTools, []domain.ContentItem{tool})
	require.NoError(t, err)

	items, err := repo.FetchPublished(ctx, domain.Facet{Collection: domain.CollectionArticles})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "dos", items[0].Slug)
	assert.Equal(t, "uno", items[1].Slug)
	assert.Equal(t, "sanity", items[0].Source)
	assert.Empty(t, items[0].Body)
	assert.True(t, items[0].PublishedAt.Equal(testNow.Add(-24*time.Hour)))

	ia, err := repo.FetchPublished(ctx, domain.Facet{Collection: domain.CollectionArticles, Category: "ia"})
	require.NoError(t, err)
	require.Len(t, ia, 1)
	assert.Equal(t, "uno", ia[0].Slug)

	tools, err := repo.FetchPublished(ctx, domain.Facet{Collection: domain.CollectionTools})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	require.NotNil(t, tools[0].Rating)
	assert.InDelta(t, 4.2, *tools[0].Rating, 0.0001)
	assert.Equal(t, domain.PriceTypeFreemium, tools[0].PriceType)
	assert.Equal(t, "https://chat.openai.com", tools[0].Payload["affiliate_url"])
}

func TestReplaceCollection_UpdatesAndPrunes(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.ReplaceCollection(ctx, "sanity", domain.CollectionArticles, []domain.ContentItem{
		article("a1", "uno", testNow.Add(-time.Hour)),
		article("a2", "dos", testNow.Add(-time.Hour)),
	})
	require.NoError(t, err)
	_, err = repo.ReplaceCollection(ctx, "notion", domain.CollectionArticles, []domain.ContentItem{
		article("n1", "nocion", testNow.Add(-time.Hour)),
	})
	require.NoError(t, err)

	updated := article("a1", "uno", testNow.Add(-time.Hour))
	updated.Title = "Nuevo título"
	_, err = repo.ReplaceCollection(ctx, "sanity", domain.CollectionArticles, []domain.ContentItem{updated})
	require.NoError(t, err)

	count, err := repo.Count(ctx, "sanity")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	item, err := repo.FetchBySlug(ctx, domain.CollectionArticles, "uno")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo título", item.Title)
	assert.Equal(t, "<p>uno</p>", item.Body)

	_, err = repo.ReplaceCollection(ctx, "sanity", domain.CollectionArticles, nil)
	require.NoError(t, err)

	count, err = repo.Count(ctx, "sanity")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFetchBySlug_NotFoundAndUnpublished(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.ReplaceCollection(ctx, "sanity", domain.CollectionArticles, []domain.ContentItem{
		article("a1", "futuro", testNow.Add(time.Hour)),
	})
	require.NoError(t, err)

	_, err = repo.FetchBySlug(ctx, domain.CollectionArticles, "futuro")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FetchBySlug(ctx, domain.CollectionArticles, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHealthCheckAndRollback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.HealthCheck(context.Background()))
	assert.Equal(t, Name, repo.Name())

	require.NoError(t, migrations.Rollback(db))
	assert.False(t, db.Migrator().HasIndex(&ContentItemModel{}, "idx_content_items_categories"))
	assert.True(t, db.Migrator().HasTable(&ContentItemModel{}))
}
