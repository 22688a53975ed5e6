package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// CountUsers returns the number of registered users.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountResumes returns the number of stored resumes.
func (db *DB) CountResumes(ctx context.Context) (int64, error) {
	var n int64
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return n, nil
}

// CountResumesByDay returns resume creation counts per UTC day since the given
// instant, oldest first. Days without resumes are omitted.
func (db *DB) CountResumesByDay(ctx context.Context, since time.Time) ([]types.DailyCount, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		 FROM resumes
		 WHERE created_at >= $1
		 GROUP BY day
		 ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count resumes by day: %w", err)
	}
	defer rows.Close()

	counts := []types.DailyCount{}
	for rows.Next() {
		var c types.DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily counts: %w", err)
	}
	return counts, nil
}
