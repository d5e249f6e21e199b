package author

import (
	"context"
)

type Service struct {
	repo    Repository
	cascade bool
}

// NewService creates an author service. cascade controls whether deleting
// an author also deletes their books.
func NewService(repo Repository, cascade bool) *Service {
	return &Service{repo: repo, cascade: cascade}
}

func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Author, error) {
	a := Author{Name: name}
	if err := Validate(a); err != nil {
		return Author{}, err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Author, error) {
	a := Author{ID: id, Name: name}
	if err := Validate(a); err != nil {
		return Author{}, err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id, s.cascade)
}
