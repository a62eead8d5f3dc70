// Package cache keeps a local sqlite mirror of the user's lists and
// notifications so the UI renders instantly while offline. The server stays
// authoritative: the mirror is replaced on refresh and purged on logout.
package cache

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
)

type Cache struct {
	db *bun.DB
}

// Open opens (or creates) the cache database at path. Use ":memory:" for an
// ephemeral cache.
func Open(ctx context.Context, path string) (*Cache, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "open cache database")
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same schema.
	if strings.Contains(path, ":memory:") {
		sqldb.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	c := &Cache{db: db}

	if err := c.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate(ctx context.Context) error {
	models := []any{
		(*listEntryRow)(nil),
		(*notificationRow)(nil),
	}
	for _, model := range models {
		if _, err := c.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "create cache tables")
		}
	}
	return nil
}

// ReplaceList swaps the cached entries of one list for the given snapshot.
func (c *Cache) ReplaceList(ctx context.Context, kind client.ListKind, entries []client.ListEntry) error {
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*listEntryRow)(nil)).
			Where("kind = ?", string(kind)).
			Exec(ctx); err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		rows := make([]listEntryRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, listEntryRow{
				Kind:      string(kind),
				MovieID:   e.MovieID,
				Title:     e.Title,
				PosterURL: e.PosterURL,
				AddedAt:   e.AddedAt,
			})
		}

		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
}

// ListEntries returns the cached entries of one list, oldest first.
func (c *Cache) ListEntries(ctx context.Context, kind client.ListKind) ([]client.ListEntry, error) {
	var rows []listEntryRow
	if err := c.db.NewSelect().
		Model(&rows).
		Where("kind = ?", string(kind)).
		Order("added_at ASC").
		Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "read cached list")
	}

	entries := make([]client.ListEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, client.ListEntry{
			MovieID:   row.MovieID,
			Title:     row.Title,
			PosterURL: row.PosterURL,
			AddedAt:   row.AddedAt,
		})
	}
	return entries, nil
}

// UpsertNotifications merges a fetched batch into the mirror.
func (c *Cache) UpsertNotifications(ctx context.Context, batch []streambase.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	rows := make([]notificationRow, 0, len(batch))
	for _, n := range batch {
		rows = append(rows, notificationRow{
			ID:        n.ID,
			UserID:    n.UserID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	_, err := c.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("read = EXCLUDED.read").
		Set("message = EXCLUDED.message").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "cache notifications")
	}
	return nil
}

// UnreadCount returns how many cached notifications are unread for the user.
func (c *Cache) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := c.db.NewSelect().
		Model((*notificationRow)(nil)).
		Where("user_id = ?", userID).
		Where("read = ?", false).
		Count(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryOperation, "count unread notifications")
	}
	return count, nil
}

// MarkAllRead flips every cached notification of the user to read.
func (c *Cache) MarkAllRead(ctx context.Context, userID string) error {
	_, err := c.db.NewUpdate().
		Model((*notificationRow)(nil)).
		Set("read = ?", true).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "mark notifications read")
	}
	return nil
}

// Purge drops every cached row. Called on logout so the next account never
// sees the previous account's data.
func (c *Cache) Purge(ctx context.Context) error {
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*listEntryRow)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*notificationRow)(nil)).
			Where("1 = 1").
			Exec(ctx)
		return err
	})
}
