package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(year int) Clock {
	return func() time.Time { return at(year) }
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo, clockAt(2024))
	ctx := context.Background()

	t.Run("valid book is stored", func(t *testing.T) {
		in := Book{Title: "Alpha Book", PublicationYear: 2000, AuthorID: 1}
		mockRepo.EXPECT().Create(gomock.Any(), in).Return(Book{ID: 5, Title: "Alpha Book", PublicationYear: 2000, AuthorID: 1}, nil)

		got, err := service.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
	})

	t.Run("future year never reaches the store", func(t *testing.T) {
		_, err := service.Create(ctx, Book{Title: "Later", PublicationYear: 2025, AuthorID: 1})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "publication_year")
	})
}

func TestService_ClockReadPerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)

	year := 2024
	service := NewService(mockRepo, func() time.Time { return at(year) })
	in := Book{Title: "Next Year", PublicationYear: 2025, AuthorID: 1}

	_, err := service.Create(context.Background(), in)
	require.Error(t, err)

	year = 2025
	mockRepo.EXPECT().Create(gomock.Any(), in).Return(Book{ID: 1}, nil)
	_, err = service.Create(context.Background(), in)
	assert.NoError(t, err)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo, clockAt(2024))
	ctx := context.Background()

	t.Run("missing book", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), int64(9)).Return(Book{}, ErrNotFound)
		_, err := service.Update(ctx, 9, Book{Title: "x", PublicationYear: 2000, AuthorID: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("full replace", func(t *testing.T) {
		want := Book{ID: 3, Title: "New", PublicationYear: 1999, AuthorID: 2}
		mockRepo.EXPECT().Get(gomock.Any(), int64(3)).Return(Book{ID: 3, Title: "Old", PublicationYear: 2001, AuthorID: 1}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), want).Return(want, nil)

		got, err := service.Update(ctx, 3, Book{Title: "New", PublicationYear: 1999, AuthorID: 2})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestService_Patch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo, clockAt(2024))

	stored := Book{ID: 3, Title: "Old", PublicationYear: 2001, AuthorID: 1}
	title := "Renamed"
	want := Book{ID: 3, Title: "Renamed", PublicationYear: 2001, AuthorID: 1}

	mockRepo.EXPECT().Get(gomock.Any(), int64(3)).Return(stored, nil)
	mockRepo.EXPECT().Update(gomock.Any(), want).Return(want, nil)

	got, err := service.Patch(context.Background(), 3, Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo, nil)

	boom := errors.New("boom")
	mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(boom)
	assert.ErrorIs(t, service.Delete(context.Background(), 1), boom)
}
