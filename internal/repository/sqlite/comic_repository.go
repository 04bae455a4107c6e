package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"comicvault/internal/domain"
	"comicvault/internal/repository"
)

const createComicsTable = `
CREATE TABLE IF NOT EXISTS comics (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	year INTEGER NOT NULL,
	publisher TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comics_user_id ON comics(user_id);
`

type ComicRepository struct {
	db *sql.DB
}

func NewComicRepository(db *sql.DB) repository.ComicRepository {
	return &ComicRepository{db: db}
}

func (r *ComicRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createComicsTable); err != nil {
		return fmt.Errorf("create comics table: %w", err)
	}
	return nil
}

func (r *ComicRepository) Create(ctx context.Context, comic *domain.Comic) (string, error) {
	now := time.Now().UTC()
	comic.CreatedAt = now
	comic.UpdatedAt = now
	if comic.ID == "" {
		comic.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO comics (id, title, author, year, publisher, status, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comic.ID,
		comic.Title,
		comic.Author,
		comic.Year,
		comic.Publisher,
		string(comic.Status),
		comic.UserID,
		comic.CreatedAt,
		comic.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert comic: %w", err)
	}
	return comic.ID, nil
}

func (r *ComicRepository) Count(ctx context.Context, filter repository.ComicFilter) (int64, error) {
	where, args := buildComicFilter(filter)

	var total int64
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comics WHERE `+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count comics: %w", err)
	}
	return total, nil
}

func (r *ComicRepository) List(ctx context.Context, filter repository.ComicFilter, skip, limit int) ([]domain.Comic, error) {
	where, args := buildComicFilter(filter)
	args = append(args, limit, skip)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, author, year, publisher, status, user_id, created_at, updated_at
FROM comics
WHERE `+where+`
ORDER BY year DESC
LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query comics: %w", err)
	}
	defer rows.Close()

	var comics []domain.Comic
	for rows.Next() {
		comic, err := scanComic(rows)
		if err != nil {
			return nil, err
		}
		comics = append(comics, *comic)
	}

	return comics, rows.Err()
}

func (r *ComicRepository) Get(ctx context.Context, userID, id string) (*domain.Comic, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, author, year, publisher, status, user_id, created_at, updated_at
FROM comics
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	return scanComic(row)
}

func (r *ComicRepository) Update(ctx context.Context, userID, id string, update domain.ComicUpdate) (*domain.Comic, error) {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 8)

	if update.Title != nil {
		assignments = append(assignments, "title=?")
		args = append(args, *update.Title)
	}
	if update.Author != nil {
		assignments = append(assignments, "author=?")
		args = append(args, *update.Author)
	}
	if update.Year != nil {
		assignments = append(assignments, "year=?")
		args = append(args, *update.Year)
	}
	if update.Publisher != nil {
		assignments = append(assignments, "publisher=?")
		args = append(args, *update.Publisher)
	}
	if update.Status != nil {
		assignments = append(assignments, "status=?")
		args = append(args, string(*update.Status))
	}
	if len(assignments) == 0 {
		return nil, errors.New("no fields to update")
	}

	assignments = append(assignments, "updated_at=?")
	args = append(args, time.Now().UTC(), id, userID)

	query := fmt.Sprintf(`UPDATE comics SET %s WHERE id=? AND user_id=?`, strings.Join(assignments, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update comic: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("comic update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, repository.ErrNotFound
	}

	return r.Get(ctx, userID, id)
}

func (r *ComicRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comics WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete comic: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("comic delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByTitle groups every user's comics by title. This is the one
// query that is deliberately not scoped to an owner.
func (r *ComicRepository) CountByTitle(ctx context.Context, limit int) ([]domain.TitleCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT title, COUNT(*) AS cnt
FROM comics
GROUP BY title
ORDER BY cnt DESC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("count comics by title: %w", err)
	}
	defer rows.Close()

	var counts []domain.TitleCount
	for rows.Next() {
		var tc domain.TitleCount
		if err := rows.Scan(&tc.Title, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan title count: %w", err)
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

func buildComicFilter(filter repository.ComicFilter) (string, []any) {
	conditions := []string{"user_id = ?"}
	args := []any{filter.UserID}

	if filter.Title != "" {
		conditions = append(conditions, `LOWER(title) LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(strings.ToLower(filter.Title)))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanComic(scanner interface {
	Scan(dest ...any) error
}) (*domain.Comic, error) {
	var (
		comic  domain.Comic
		status string
	)

	if err := scanner.Scan(
		&comic.ID,
		&comic.Title,
		&comic.Author,
		&comic.Year,
		&comic.Publisher,
		&status,
		&comic.UserID,
		&comic.CreatedAt,
		&comic.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan comic: %w", err)
	}

	comic.Status = domain.ComicStatus(status)
	return &comic, nil
}
