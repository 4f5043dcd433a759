package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grvbrk/smart-bookmarks/internal/models"
)

// ErrBookmarkNotFound is returned by DeleteBookmark when no row matched the
// given id for that owner.
var ErrBookmarkNotFound = errors.New("bookmark not found")

type PostgresBookmarkStore struct {
	db *sql.DB
}

func NewPostgresBookmarkStore(db *sql.DB) *PostgresBookmarkStore {
	return &PostgresBookmarkStore{db: db}
}

type BookmarkStore interface {
	GetBookmarksByUserID(userID uuid.UUID) ([]models.Bookmark, error)
	CreateBookmark(title string, url string, userID uuid.UUID) (*models.Bookmark, error)
	DeleteBookmark(id uuid.UUID, userID uuid.UUID) error
}

func (p *PostgresBookmarkStore) GetBookmarksByUserID(userID uuid.UUID) ([]models.Bookmark, error) {
	query := `
		SELECT id, user_id, title, url, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []models.Bookmark{}

	for rows.Next() {
		var bookmark models.Bookmark

		err := rows.Scan(
			&bookmark.Id,
			&bookmark.UserID,
			&bookmark.Title,
			&bookmark.URL,
			&bookmark.Created_At,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (p *PostgresBookmarkStore) CreateBookmark(title string, url string, userID uuid.UUID) (*models.Bookmark, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)

	if title == "" || url == "" {
		return nil, fmt.Errorf("title and url must not be blank")
	}

	bookmark := &models.Bookmark{
		UserID: userID,
		Title:  title,
		URL:    url,
	}

	query := `
		INSERT INTO bookmarks (title, url, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(query, title, url, userID).Scan(&bookmark.Id, &bookmark.Created_At)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return bookmark, nil
}

func (p *PostgresBookmarkStore) DeleteBookmark(id uuid.UUID, userID uuid.UUID) error {
	query := `
		DELETE FROM bookmarks
		WHERE id = $1 AND user_id = $2
	`

	result, err := p.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}

	if rows == 0 {
		return ErrBookmarkNotFound
	}

	return nil
}
