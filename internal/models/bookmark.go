package models

import (
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	Id         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Created_At time.Time `json:"created_at"`
}
