package repository

import (
	"context"

	"comicvault/internal/domain"
)

// ComicFilter narrows a comic listing. UserID is mandatory; Title and
// Status are optional refinements.
type ComicFilter struct {
	UserID string
	Title  string
	Status domain.ComicStatus
}

// ComicRepository exposes persistence operations for Comic records.
// Every read and write except CountByTitle is scoped to a single owner.
type ComicRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comic *domain.Comic) (string, error)
	Count(ctx context.Context, filter ComicFilter) (int64, error)
	List(ctx context.Context, filter ComicFilter, skip, limit int) ([]domain.Comic, error)
	Get(ctx context.Context, userID, id string) (*domain.Comic, error)
	Update(ctx context.Context, userID, id string, update domain.ComicUpdate) (*domain.Comic, error)
	Delete(ctx context.Context, userID, id string) error
	CountByTitle(ctx context.Context, limit int) ([]domain.TitleCount, error)
}
