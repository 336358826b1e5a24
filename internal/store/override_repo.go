package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/workdays/internal/workdays"
	"github.com/username/workdays/pkg/dateutil"
)

// Override event actions recorded in override_events
const (
	ActionExclude    = "exclude"
	ActionInclude    = "include"
	ActionRemove     = "remove"
	ActionClearMonth = "clear-month"
	ActionImport     = "import"
)

// importScope is the event date recorded when the whole map is replaced
const importScope = "*"

// OverrideEvent is one recorded change to the override map
type OverrideEvent struct {
	ID        int64
	Date      string
	Action    string
	CreatedAt time.Time
}

// OverrideRepository persists the per-day override map
type OverrideRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOverrideRepository creates a repository over db
func NewOverrideRepository(db *DB, logger *zap.Logger) *OverrideRepository {
	return &OverrideRepository{db: db, logger: logger}
}

// List returns every stored override
func (r *OverrideRepository) List(ctx context.Context) (workdays.Overrides, error) {
	return r.query(ctx, r.db.conn, `SELECT date, excluded FROM day_overrides ORDER BY date`)
}

// ListMonth returns the overrides stored for one month
func (r *OverrideRepository) ListMonth(ctx context.Context, year int, month time.Month) (workdays.Overrides, error) {
	return r.query(ctx, r.db.conn,
		`SELECT date, excluded FROM day_overrides WHERE date LIKE ? ORDER BY date`,
		dateutil.MonthPrefix(year, month)+"-%")
}

// Get returns the override for an ISO date
func (r *OverrideRepository) Get(ctx context.Context, date string) (workdays.DayOverride, bool, error) {
	var ov workdays.DayOverride
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT date, excluded FROM day_overrides WHERE date = ?`, date,
	).Scan(&ov.Date, &ov.Excluded)
	if errors.Is(err, sql.ErrNoRows) {
		return workdays.DayOverride{}, false, nil
	}
	if err != nil {
		return workdays.DayOverride{}, false, fmt.Errorf("failed to get override: %w", err)
	}
	return ov, true, nil
}

// Put inserts or replaces the override for its date
func (r *OverrideRepository) Put(ctx context.Context, ov workdays.DayOverride) error {
	if _, err := dateutil.ParseISO(ov.Date); err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(conn dbConn) error {
		if err := putOverride(ctx, conn, ov); err != nil {
			return err
		}
		action := ActionInclude
		if ov.Excluded {
			action = ActionExclude
		}
		return recordEvent(ctx, conn, ov.Date, action)
	})
}

// Delete removes the override for an ISO date. Deleting a missing date is not an error.
func (r *OverrideRepository) Delete(ctx context.Context, date string) error {
	return r.db.WithTransaction(ctx, func(conn dbConn) error {
		res, err := conn.ExecContext(ctx, `DELETE FROM day_overrides WHERE date = ?`, date)
		if err != nil {
			return fmt.Errorf("failed to delete override: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return recordEvent(ctx, conn, date, ActionRemove)
	})
}

// ClearMonth removes every override of the month and returns how many were removed
func (r *OverrideRepository) ClearMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	prefix := dateutil.MonthPrefix(year, month)
	var removed int64

	err := r.db.WithTransaction(ctx, func(conn dbConn) error {
		res, err := conn.ExecContext(ctx, `DELETE FROM day_overrides WHERE date LIKE ?`, prefix+"-%")
		if err != nil {
			return fmt.Errorf("failed to clear month overrides: %w", err)
		}
		removed, _ = res.RowsAffected()
		if removed == 0 {
			return nil
		}
		return recordEvent(ctx, conn, prefix, ActionClearMonth)
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Month overrides cleared",
		zap.String("month", prefix),
		zap.Int64("removed", removed))

	return removed, nil
}

// ReplaceAll atomically replaces the stored map with overrides
func (r *OverrideRepository) ReplaceAll(ctx context.Context, overrides workdays.Overrides) error {
	err := r.db.WithTransaction(ctx, func(conn dbConn) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM day_overrides`); err != nil {
			return fmt.Errorf("failed to clear overrides: %w", err)
		}
		for key, ov := range overrides {
			// keys are authoritative
			ov.Date = key
			if _, err := dateutil.ParseISO(key); err != nil {
				return err
			}
			if err := putOverride(ctx, conn, ov); err != nil {
				return err
			}
		}
		return recordEvent(ctx, conn, importScope, ActionImport)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Overrides replaced", zap.Int("count", len(overrides)))
	return nil
}

// Events returns the most recent override changes, newest first
func (r *OverrideRepository) Events(ctx context.Context, limit int) ([]OverrideEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, date, action, created_at FROM override_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list override events: %w", err)
	}
	defer rows.Close()

	var events []OverrideEvent
	for rows.Next() {
		var e OverrideEvent
		if err := rows.Scan(&e.ID, &e.Date, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *OverrideRepository) query(ctx context.Context, conn dbConn, query string, args ...interface{}) (workdays.Overrides, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(workdays.Overrides)
	for rows.Next() {
		var ov workdays.DayOverride
		if err := rows.Scan(&ov.Date, &ov.Excluded); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides[ov.Date] = ov
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	return overrides, nil
}

func putOverride(ctx context.Context, conn dbConn, ov workdays.DayOverride) error {
	_, err := conn.ExecContext(ctx, `
		INSERT INTO day_overrides (date, excluded, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			excluded = excluded.excluded,
			updated_at = CURRENT_TIMESTAMP
	`, ov.Date, ov.Excluded)
	if err != nil {
		return fmt.Errorf("failed to save override %s: %w", ov.Date, err)
	}
	return nil
}

func recordEvent(ctx context.Context, conn dbConn, date, action string) error {
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO override_events (date, action) VALUES (?, ?)`, date, action); err != nil {
		return fmt.Errorf("failed to record override event: %w", err)
	}
	return nil
}
