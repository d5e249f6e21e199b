package book

import (
	"context"
	"time"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
	now  Clock
}

// NewService creates a new book service. A nil clock means time.Now.
func NewService(repo Repository, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	if err := Validate(b, s.now()); err != nil {
		return Book{}, err
	}
	return s.repo.Create(ctx, b)
}

// Update replaces the book with the given id.
func (s *Service) Update(ctx context.Context, id int64, b Book) (Book, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Book{}, err
	}
	b.ID = id
	if err := Validate(b, s.now()); err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, b)
}

// Patch applies p on top of the stored book and validates the result.
func (s *Service) Patch(ctx context.Context, id int64, p Patch) (Book, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Book{}, err
	}
	next := p.Apply(current)
	if err := Validate(next, s.now()); err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
