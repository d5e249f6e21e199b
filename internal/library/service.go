package library

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Library, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Library, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Library, error) {
	if err := ValidateName(name); err != nil {
		return Library{}, err
	}
	return s.repo.Create(ctx, name)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddBook links bookID and returns the updated library.
func (s *Service) AddBook(ctx context.Context, libraryID, bookID int64) (Library, error) {
	if err := s.repo.AddBook(ctx, libraryID, bookID); err != nil {
		return Library{}, err
	}
	return s.repo.Get(ctx, libraryID)
}

func (s *Service) RemoveBook(ctx context.Context, libraryID, bookID int64) (Library, error) {
	if err := s.repo.RemoveBook(ctx, libraryID, bookID); err != nil {
		return Library{}, err
	}
	return s.repo.Get(ctx, libraryID)
}

func (s *Service) SetLibrarian(ctx context.Context, libraryID int64, name string) (Library, error) {
	if err := ValidateName(name); err != nil {
		return Library{}, err
	}
	if err := s.repo.SetLibrarian(ctx, libraryID, name); err != nil {
		return Library{}, err
	}
	return s.repo.Get(ctx, libraryID)
}
