package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyTitle is returned when a tutorial is created without a title.
var ErrEmptyTitle = errors.New("tutorial title is required")

// CreateTutorial inserts a pending tutorial and returns it.
func (s *Store) CreateTutorial(ctx context.Context, title string) (*Tutorial, error) {
	tutorial, _, err := s.CreateTutorialWithSteps(ctx, title, nil)
	return tutorial, err
}

// CreateTutorialWithSteps inserts a pending tutorial and its steps in one
// transaction. Nothing is stored when any step fails to insert.
func (s *Store) CreateTutorialWithSteps(ctx context.Context, title string, steps []NewStep) (*Tutorial, []Step, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, ErrEmptyTitle
	}
	ctx = ensureContext(ctx)
	now := nowUTC()
	tutorial := &Tutorial{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var stored []Step
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tutorials (id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			tutorial.ID, tutorial.Title, string(tutorial.Status), formatTime(now), formatTime(now),
		); err != nil {
			return fmt.Errorf("insert tutorial: %w", err)
		}
		if len(steps) == 0 {
			stored = nil
			return nil
		}
		var err error
		stored, err = insertSteps(ctx, tx, tutorial.ID, steps)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	tutorial.StepCount = len(stored)
	return tutorial, stored, nil
}

// GetTutorial fetches a tutorial by id. It returns nil when none exists.
func (s *Store) GetTutorial(ctx context.Context, id string) (*Tutorial, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tutorialColumns+` FROM tutorials t WHERE t.id = ?`, id)
	tutorial, err := scanTutorial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tutorial: %w", err)
	}
	return tutorial, nil
}

// ListTutorials returns tutorials ordered by creation time, optionally
// filtered by status.
func (s *Store) ListTutorials(ctx context.Context, statuses ...Status) ([]*Tutorial, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + tutorialColumns + ` FROM tutorials t`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` WHERE t.status IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY t.created_at, t.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tutorials: %w", err)
	}
	defer rows.Close()

	var tutorials []*Tutorial
	for rows.Next() {
		tutorial, err := scanTutorial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tutorial: %w", err)
		}
		tutorials = append(tutorials, tutorial)
	}
	return tutorials, rows.Err()
}

// UpdateTutorial persists the mutable fields of a tutorial and refreshes
// UpdatedAt.
func (s *Store) UpdateTutorial(ctx context.Context, tutorial *Tutorial) error {
	if tutorial == nil {
		return errors.New("update tutorial: nil tutorial")
	}
	tutorial.UpdatedAt = nowUTC()
	var alignedAt any
	if tutorial.AlignedAt != nil {
		alignedAt = formatTime(*tutorial.AlignedAt)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE tutorials SET title = ?, status = ?, error_message = ?, transcript_source = ?,
			updated_at = ?, aligned_at = ? WHERE id = ?`,
		tutorial.Title,
		string(tutorial.Status),
		nullableString(tutorial.ErrorMessage),
		nullableString(tutorial.TranscriptSource),
		formatTime(tutorial.UpdatedAt),
		alignedAt,
		tutorial.ID,
	)
	if err != nil {
		return fmt.Errorf("update tutorial: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update tutorial %s: %w", tutorial.ID, sql.ErrNoRows)
	}
	return nil
}

// DeleteTutorial removes a tutorial together with its steps and segments.
// It reports whether a row was removed.
func (s *Store) DeleteTutorial(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM tutorials WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete tutorial: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tutorial rows: %w", err)
	}
	return n > 0, nil
}

// Stats returns tutorial counts grouped by status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tutorials GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("tutorial stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByStatus: make(map[Status]int)}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[Status(status)] = count
		stats.Total += count
	}
	return stats, rows.Err()
}
