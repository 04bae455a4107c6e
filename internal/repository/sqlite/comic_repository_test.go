package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"comicvault/internal/domain"
	"comicvault/internal/repository"
)

func newTestComicRepo(t *testing.T) repository.ComicRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewComicRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func mustCreate(t *testing.T, repo repository.ComicRepository, userID, title, author string, year int, status domain.ComicStatus) string {
	t.Helper()

	id, err := repo.Create(context.Background(), &domain.Comic{
		Title:  title,
		Author: author,
		Year:   year,
		Status: status,
		UserID: userID,
	})
	require.NoError(t, err)
	return id
}

func TestComicRepository_CreateAndGet(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, "u1", "Watchmen", "Moore", 1986, domain.ComicStatusPending)
	require.NotEmpty(t, id)

	comic, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	require.Equal(t, "Watchmen", comic.Title)
	require.Equal(t, "Moore", comic.Author)
	require.Equal(t, 1986, comic.Year)
	require.Equal(t, domain.ComicStatusPending, comic.Status)
	require.Equal(t, "u1", comic.UserID)
	require.False(t, comic.CreatedAt.IsZero())

	// Another user must not see it.
	_, err = repo.Get(ctx, "u2", id)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestComicRepository_ListIsOwnershipScoped(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, "alice", "Watchmen", "Moore", 1986, domain.ComicStatusPending)
	mustCreate(t, repo, "bob", "Maus", "Spiegelman", 1980, domain.ComicStatusRead)

	comics, err := repo.List(ctx, repository.ComicFilter{UserID: "alice"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, comics, 1)
	require.Equal(t, "Watchmen", comics[0].Title)

	total, err := repo.Count(ctx, repository.ComicFilter{UserID: "alice"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestComicRepository_ListTitleFilterCaseInsensitive(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, "u1", "The Sandman", "Gaiman", 1989, domain.ComicStatusRead)
	mustCreate(t, repo, "u1", "Saga", "Vaughan", 2012, domain.ComicStatusPending)

	comics, err := repo.List(ctx, repository.ComicFilter{UserID: "u1", Title: "sand"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, comics, 1)
	require.Equal(t, "The Sandman", comics[0].Title)

	// LIKE metacharacters in the filter are literals, not wildcards.
	comics, err = repo.List(ctx, repository.ComicFilter{UserID: "u1", Title: "%"}, 0, 10)
	require.NoError(t, err)
	require.Empty(t, comics)
}

func TestComicRepository_ListStatusFilterAndOrder(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, "u1", "A", "x", 1990, domain.ComicStatusRead)
	mustCreate(t, repo, "u1", "B", "x", 2010, domain.ComicStatusPending)
	mustCreate(t, repo, "u1", "C", "x", 2000, domain.ComicStatusPending)

	comics, err := repo.List(ctx, repository.ComicFilter{UserID: "u1", Status: domain.ComicStatusPending}, 0, 10)
	require.NoError(t, err)
	require.Len(t, comics, 2)
	// year descending
	require.Equal(t, "B", comics[0].Title)
	require.Equal(t, "C", comics[1].Title)
}

func TestComicRepository_ListPagination(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	for year := 2001; year <= 2005; year++ {
		mustCreate(t, repo, "u1", "T", "x", year, domain.ComicStatusPending)
	}

	comics, err := repo.List(ctx, repository.ComicFilter{UserID: "u1"}, 2, 2)
	require.NoError(t, err)
	require.Len(t, comics, 2)
	require.Equal(t, 2003, comics[0].Year)
	require.Equal(t, 2002, comics[1].Year)
}

func TestComicRepository_UpdatePartial(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, "u1", "Watchmen", "Moore", 1986, domain.ComicStatusPending)

	status := domain.ComicStatusRead
	updated, err := repo.Update(ctx, "u1", id, domain.ComicUpdate{Status: &status})
	require.NoError(t, err)
	require.Equal(t, domain.ComicStatusRead, updated.Status)
	// untouched fields preserved
	require.Equal(t, "Watchmen", updated.Title)
	require.Equal(t, 1986, updated.Year)
}

func TestComicRepository_UpdateNotOwned(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, "u1", "Watchmen", "Moore", 1986, domain.ComicStatusPending)

	title := "Stolen"
	_, err := repo.Update(ctx, "u2", id, domain.ComicUpdate{Title: &title})
	require.ErrorIs(t, err, repository.ErrNotFound)

	comic, err := repo.Get(ctx, "u1", id)
	require.NoError(t, err)
	require.Equal(t, "Watchmen", comic.Title)
}

func TestComicRepository_Delete(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, "u1", "Watchmen", "Moore", 1986, domain.ComicStatusPending)

	require.ErrorIs(t, repo.Delete(ctx, "u2", id), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", id))
	require.ErrorIs(t, repo.Delete(ctx, "u1", id), repository.ErrNotFound)
}

func TestComicRepository_CountByTitle(t *testing.T) {
	repo := newTestComicRepo(t)
	ctx := context.Background()

	// counts cross user boundaries on purpose
	mustCreate(t, repo, "u1", "A", "x", 2000, domain.ComicStatusPending)
	mustCreate(t, repo, "u2", "A", "x", 2000, domain.ComicStatusPending)
	mustCreate(t, repo, "u1", "B", "x", 2000, domain.ComicStatusPending)
	mustCreate(t, repo, "u1", "C", "x", 2000, domain.ComicStatusPending)
	mustCreate(t, repo, "u2", "C", "x", 2000, domain.ComicStatusPending)
	mustCreate(t, repo, "u3", "C", "x", 2000, domain.ComicStatusPending)

	counts, err := repo.CountByTitle(ctx, 2)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, domain.TitleCount{Title: "C", Count: 3}, counts[0])
	require.Equal(t, domain.TitleCount{Title: "A", Count: 2}, counts[1])
}
