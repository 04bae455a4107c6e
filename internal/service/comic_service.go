package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"comicvault/internal/domain"
	"comicvault/internal/repository"
)

// ErrComicNotFound covers both a missing comic and a comic owned by
// another user; callers must not be able to tell the two apart.
var ErrComicNotFound = errors.New("comic not found or not owned")

// ComicInput carries the fields accepted when creating a comic. Year is
// a pointer so an absent value can be told apart from zero.
type ComicInput struct {
	Title     string
	Author    string
	Year      *int
	Publisher string
	Status    string
}

// ListResult is one page of a user's collection.
type ListResult struct {
	Comics     []domain.Comic
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// ComicService coordinates comic level operations backed by the repository.
type ComicService interface {
	Create(ctx context.Context, userID string, input ComicInput) (string, error)
	List(ctx context.Context, userID string, page, limit int, titleFilter, statusFilter string) (*ListResult, error)
	Update(ctx context.Context, userID, comicID string, update domain.ComicUpdate) (*domain.Comic, error)
	Delete(ctx context.Context, userID, comicID string) error
	PublicPopularity(ctx context.Context, limit int) ([]domain.TitleCount, error)
}

type comicService struct {
	comics repository.ComicRepository
}

func NewComicService(comics repository.ComicRepository) ComicService {
	return &comicService{comics: comics}
}

func (s *comicService) Create(ctx context.Context, userID string, input ComicInput) (string, error) {
	if input.Title == "" || input.Author == "" || input.Year == nil {
		return "", fmt.Errorf("%w: title, author and year are required", ErrValidation)
	}

	status := domain.ComicStatusPending
	if input.Status != "" {
		status = domain.ComicStatus(input.Status)
		if !status.IsValid() {
			return "", fmt.Errorf("%w: status must be 'read' or 'pending'", ErrValidation)
		}
	}

	comic := &domain.Comic{
		Title:     input.Title,
		Author:    input.Author,
		Year:      *input.Year,
		Publisher: input.Publisher,
		Status:    status,
		UserID:    userID,
	}

	return s.comics.Create(ctx, comic)
}

func (s *comicService) List(ctx context.Context, userID string, page, limit int, titleFilter, statusFilter string) (*ListResult, error) {
	filter := repository.ComicFilter{
		UserID: userID,
		Title:  titleFilter,
	}
	// An unknown status filter is ignored rather than rejected.
	if status := domain.ComicStatus(statusFilter); status.IsValid() {
		filter.Status = status
	}

	total, err := s.comics.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// page and limit are taken literally, non-positive values included.
	skip := (page - 1) * limit
	comics, err := s.comics.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int64(1)
	if limit > 0 {
		if tp := (total + int64(limit) - 1) / int64(limit); tp > 1 {
			totalPages = tp
		}
	}

	return &ListResult{
		Comics:     comics,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *comicService) Update(ctx context.Context, userID, comicID string, update domain.ComicUpdate) (*domain.Comic, error) {
	if _, err := uuid.Parse(comicID); err != nil {
		return nil, fmt.Errorf("%w: invalid comic id", ErrValidation)
	}
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, fmt.Errorf("%w: status must be 'read' or 'pending'", ErrValidation)
	}

	comic, err := s.comics.Update(ctx, userID, comicID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComicNotFound
		}
		return nil, err
	}
	return comic, nil
}

func (s *comicService) Delete(ctx context.Context, userID, comicID string) error {
	if _, err := uuid.Parse(comicID); err != nil {
		return fmt.Errorf("%w: invalid comic id", ErrValidation)
	}

	if err := s.comics.Delete(ctx, userID, comicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrComicNotFound
		}
		return err
	}
	return nil
}

func (s *comicService) PublicPopularity(ctx context.Context, limit int) ([]domain.TitleCount, error) {
	return s.comics.CountByTitle(ctx, limit)
}
