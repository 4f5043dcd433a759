package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
)

const (
	EventBookmarkCreated = "bookmark_created"
	EventBookmarkDeleted = "bookmark_deleted"
)

type ClickhouseEventStore struct {
	conn driver.Conn
}

func NewClickhouseEventStore(conn driver.Conn) *ClickhouseEventStore {
	return &ClickhouseEventStore{conn: conn}
}

type DailyActivity struct {
	Day     time.Time `json:"day"`
	Created uint64    `json:"created"`
	Deleted uint64    `json:"deleted"`
}

type EventStore interface {
	RecordBookmarkEvent(ctx context.Context, eventType string, userID uuid.UUID, bookmarkID uuid.UUID, domain string) error
	GetActivityByUserID(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyActivity, error)
}

func (c *ClickhouseEventStore) RecordBookmarkEvent(ctx context.Context, eventType string, userID uuid.UUID, bookmarkID uuid.UUID, domain string) error {
	query := `
		INSERT INTO default.bookmark_events (event_type, user_id, bookmark_id, domain, event_time)
		VALUES (?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query, eventType, userID.String(), bookmarkID.String(), domain, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record bookmark event: %w", err)
	}

	return nil
}

func (c *ClickhouseEventStore) GetActivityByUserID(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyActivity, error) {
	query := `
		SELECT
			toStartOfDay(event_time) as day,
			countIf(event_type = 'bookmark_created') as created,
			countIf(event_type = 'bookmark_deleted') as deleted
		FROM default.bookmark_events
		WHERE user_id = ? AND event_time >= ?
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := c.conn.Query(ctx, query, userID.String(), since)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark activity: %w", err)
	}
	defer rows.Close()

	var activity []DailyActivity

	for rows.Next() {
		var day DailyActivity

		err := rows.Scan(
			&day.Day,
			&day.Created,
			&day.Deleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark activity: %w", err)
		}
		activity = append(activity, day)
	}

	return activity, nil
}
