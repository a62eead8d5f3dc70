package cache

import (
	"time"

	"github.com/uptrace/bun"
)

type listEntryRow struct {
	bun.BaseModel `bun:"table:list_entries,alias:le"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Kind      string    `bun:"kind,notnull"`
	MovieID   string    `bun:"movie_id,notnull"`
	Title     string    `bun:"title,notnull"`
	PosterURL string    `bun:"poster_url"`
	AddedAt   time.Time `bun:"added_at,notnull"`
}

type notificationRow struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`

	ID        string    `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	Message   string    `bun:"message,notnull"`
	Read      bool      `bun:"read,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
