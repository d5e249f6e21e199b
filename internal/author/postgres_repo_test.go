package author

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/book"
	"bookcatalog/internal/testutil"
)

func TestPostgresRepo_DeleteCascadeAndProtect(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	authors := NewPostgresRepo(pool, 3*time.Second)
	books := book.NewPostgresRepo(pool, 3*time.Second)
	ctx := context.Background()

	one, err := authors.Create(ctx, Author{Name: "Author One"})
	require.NoError(t, err)
	two, err := authors.Create(ctx, Author{Name: "Author Two"})
	require.NoError(t, err)

	for _, b := range []book.Book{
		{Title: "Alpha Book", PublicationYear: 2000, AuthorID: one.ID},
		{Title: "Beta Book", PublicationYear: 2010, AuthorID: one.ID},
		{Title: "Gamma River", PublicationYear: 2005, AuthorID: two.ID},
	} {
		_, err := books.Create(ctx, b)
		require.NoError(t, err)
	}

	got, err := authors.Get(ctx, one.ID)
	require.NoError(t, err)
	assert.Len(t, got.Books, 2)

	assert.ErrorIs(t, authors.Delete(ctx, one.ID, false), ErrHasBooks)
	all, err := books.List(ctx, book.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "protected delete must not remove anything")

	require.NoError(t, authors.Delete(ctx, one.ID, true))
	all, err = books.List(ctx, book.Query{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Gamma River", all[0].Title)

	_, err = authors.Get(ctx, one.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, authors.Delete(ctx, one.ID, true), ErrNotFound)

	list, err := authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Author Two", list[0].Name)
	assert.Len(t, list[0].Books, 1)
}
