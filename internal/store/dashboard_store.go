package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Dashboard struct {
	TotalBookmarks int `json:"total_bookmarks"`
	AddedThisWeek  int `json:"added_this_week"`
}

type PostgresDashboardStore struct {
	db *sql.DB
}

func NewPostgresDashboardStore(db *sql.DB) *PostgresDashboardStore {
	return &PostgresDashboardStore{db: db}
}

type DashboardStore interface {
	GetDashboardMetricsByUserID(userID uuid.UUID) (*Dashboard, error)
}

func (pg *PostgresDashboardStore) GetDashboardMetricsByUserID(userID uuid.UUID) (*Dashboard, error) {

	var dashboard Dashboard

	query := `
		SELECT
			(SELECT COUNT(*) FROM bookmarks WHERE user_id = $1) as total_bookmarks,
			(SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND created_at > now() - interval '7 days') as added_this_week;
	`

	err := pg.db.QueryRow(query, userID).Scan(&dashboard.TotalBookmarks, &dashboard.AddedThisWeek)
	if err != nil {
		return nil, fmt.Errorf("error getting dashboard metrics: %w", err)
	}

	return &dashboard, nil
}
