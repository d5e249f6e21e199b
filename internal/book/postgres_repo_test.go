package book

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/testutil"
)

func TestBuildListSQL(t *testing.T) {
	title := "Alpha"
	year := 2000
	sql, args := buildListSQL(Query{
		Title:           &title,
		PublicationYear: &year,
		Search:          []string{"50%_off"},
		Ordering:        []Ordering{{Field: OrderPublicationYear, Desc: true}},
	})

	assert.Contains(t, sql, "b.title = $1")
	assert.Contains(t, sql, "b.publication_year = $2")
	assert.Contains(t, sql, `(b.title ILIKE $3 ESCAPE '\' OR a.name ILIKE $3 ESCAPE '\')`)
	assert.Contains(t, sql, "ORDER BY b.publication_year DESC, b.id ASC")
	assert.Equal(t, []any{"Alpha", 2000, `%50\%\_off%`}, args)
}

func TestBuildListSQL_DefaultOrdering(t *testing.T) {
	sql, args := buildListSQL(Query{})
	assert.Empty(t, args)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(sql), `ORDER BY b.title COLLATE "C" ASC, b.id ASC`))
}

func seedAuthors(t *testing.T, repo *PostgresRepo, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		err := repo.db.QueryRow(context.Background(), `INSERT INTO authors (name) VALUES ($1) RETURNING id`, name).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestPostgresRepo_CRUDAndQuery(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	repo := NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	authors := seedAuthors(t, repo, "Author One", "Author Two")
	for _, b := range []Book{
		{Title: "Alpha Book", PublicationYear: 2000, AuthorID: authors[0]},
		{Title: "Beta Book", PublicationYear: 2010, AuthorID: authors[0]},
		{Title: "Gamma River", PublicationYear: 2005, AuthorID: authors[1]},
	} {
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	titles := func(books []Book) []string {
		out := make([]string, 0, len(books))
		for _, b := range books {
			out = append(out, b.Title)
		}
		return out
	}

	got, err := repo.List(ctx, Query{Search: []string{"River"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma River"}, titles(got))

	got, err = repo.List(ctx, Query{Search: []string{"two"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma River"}, titles(got))

	got, err = repo.List(ctx, Query{Ordering: []Ordering{{Field: OrderPublicationYear, Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta Book", "Gamma River", "Alpha Book"}, titles(got))

	_, err = repo.Create(ctx, Book{Title: "Orphan", PublicationYear: 2000, AuthorID: 9999})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	first := got[2]
	first.Title = "Alpha Revised"
	_, err = repo.Update(ctx, first)
	require.NoError(t, err)
	fetched, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Revised", fetched.Title)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
}
