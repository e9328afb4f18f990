package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"clickscribe/internal/align"
)

// AddSteps appends steps to a tutorial after any existing ones and returns the
// stored rows. Sequence numbers continue from the current maximum. New steps
// invalidate any earlier alignment, so the tutorial goes back to pending.
func (s *Store) AddSteps(ctx context.Context, tutorialID string, steps []NewStep) ([]Step, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	ctx = ensureContext(ctx)
	var stored []Step
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if err = resetToPending(ctx, tx, tutorialID); err != nil {
			return fmt.Errorf("add steps to %s: %w", tutorialID, err)
		}
		stored, err = insertSteps(ctx, tx, tutorialID, steps)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// resetToPending drops a tutorial back to pending and clears the outcome of
// its last run. It returns sql.ErrNoRows when the tutorial does not exist.
func resetToPending(ctx context.Context, tx *sql.Tx, tutorialID string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE tutorials SET status = ?, error_message = NULL, aligned_at = NULL, updated_at = ? WHERE id = ?`,
		string(StatusPending), formatTime(nowUTC()), tutorialID,
	)
	if err != nil {
		return fmt.Errorf("reset tutorial status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func insertSteps(ctx context.Context, tx *sql.Tx, tutorialID string, steps []NewStep) ([]Step, error) {
	var maxSeq sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(sequence) FROM steps WHERE tutorial_id = ?`, tutorialID,
	).Scan(&maxSeq); err != nil {
		return nil, fmt.Errorf("read max sequence: %w", err)
	}
	next := 0
	if maxSeq.Valid {
		next = int(maxSeq.Int64) + 1
	}

	existing, err := tx.PrepareContext(ctx, `SELECT COUNT(1) FROM steps WHERE tutorial_id = ? AND id = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare step lookup: %w", err)
	}
	defer existing.Close()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO steps (id, tutorial_id, sequence, timestamp_start, action, url, screenshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare step insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]Step, 0, len(steps))
	seen := make(map[string]struct{}, len(steps))
	for i, in := range steps {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("insert step %s: %w", id, ErrDuplicateStep)
		}
		seen[id] = struct{}{}
		var count int
		if err := existing.QueryRowContext(ctx, tutorialID, id).Scan(&count); err != nil {
			return nil, fmt.Errorf("look up step %s: %w", id, err)
		}
		if count > 0 {
			return nil, fmt.Errorf("insert step %s: %w", id, ErrDuplicateStep)
		}

		step := Step{
			ID:             id,
			TutorialID:     tutorialID,
			Sequence:       next + i,
			TimestampStart: in.TimestampStart,
			Action:         in.Action,
			URL:            in.URL,
			ScreenshotPath: in.ScreenshotPath,
		}
		if _, err := stmt.ExecContext(ctx,
			step.ID, step.TutorialID, step.Sequence, step.TimestampStart,
			nullableString(step.Action), nullableString(step.URL), nullableString(step.ScreenshotPath),
		); err != nil {
			return nil, fmt.Errorf("insert step %s: %w", step.ID, err)
		}
		stored = append(stored, step)
	}
	return stored, nil
}

// ListSteps returns a tutorial's steps in sequence order.
func (s *Store) ListSteps(ctx context.Context, tutorialID string) ([]Step, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE tutorial_id = ? ORDER BY sequence`, tutorialID)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// UpdatesFromAligned converts aligner output into step updates.
func UpdatesFromAligned(results []align.AlignedStep) []StepUpdate {
	updates := make([]StepUpdate, len(results))
	for i, r := range results {
		updates[i] = StepUpdate{
			StepID:       r.StepID,
			TextContent:  r.TextContent,
			TimestampEnd: r.TimestampEnd,
		}
	}
	return updates
}

// ApplyAlignment writes aligned text and end timestamps onto the tutorial's
// steps and marks the tutorial aligned, all in one transaction. An update for
// a step the tutorial does not own aborts the whole write with
// ErrStepNotFound.
func (s *Store) ApplyAlignment(ctx context.Context, tutorialID string, updates []StepUpdate) error {
	ctx = ensureContext(ctx)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`UPDATE steps SET text_content = ?, timestamp_end = ?, fallback = ?
			WHERE id = ? AND tutorial_id = ?`)
		if err != nil {
			return fmt.Errorf("prepare step update: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			res, err := stmt.ExecContext(ctx,
				u.TextContent, nullableInt64(u.TimestampEnd), boolToInt(u.Fallback),
				u.StepID, tutorialID,
			)
			if err != nil {
				return fmt.Errorf("update step %s: %w", u.StepID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("apply alignment to %s: %w", u.StepID, ErrStepNotFound)
			}
		}

		now := formatTime(nowUTC())
		res, err := tx.ExecContext(ctx,
			`UPDATE tutorials SET status = ?, error_message = NULL, updated_at = ?, aligned_at = ? WHERE id = ?`,
			string(StatusAligned), now, now, tutorialID,
		)
		if err != nil {
			return fmt.Errorf("mark tutorial aligned: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("mark tutorial %s aligned: %w", tutorialID, sql.ErrNoRows)
		}
		return nil
	})
}

// IsNotFound reports whether err came from a missing tutorial or step row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrStepNotFound)
}
