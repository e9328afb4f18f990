package store

import (
	"context"
	"database/sql"
	"fmt"

	"clickscribe/internal/align"
)

// ReplaceSegments swaps the tutorial's transcript for the given segments and
// records where they came from. Input order is preserved. The tutorial goes
// back to pending so the next run picks up the new transcript.
func (s *Store) ReplaceSegments(ctx context.Context, tutorialID, source string, segments []align.Segment) error {
	ctx = ensureContext(ctx)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := resetToPending(ctx, tx, tutorialID); err != nil {
			return fmt.Errorf("replace segments for %s: %w", tutorialID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tutorials SET transcript_source = ? WHERE id = ?`,
			nullableString(source), tutorialID,
		); err != nil {
			return fmt.Errorf("record transcript source: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM transcript_segments WHERE tutorial_id = ?`, tutorialID); err != nil {
			return fmt.Errorf("clear segments: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO transcript_segments (tutorial_id, position, start_seconds, end_seconds, transcript)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare segment insert: %w", err)
		}
		defer stmt.Close()

		for i, seg := range segments {
			if _, err := stmt.ExecContext(ctx, tutorialID, i, seg.Start, seg.End, seg.Transcript); err != nil {
				return fmt.Errorf("insert segment %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListSegments returns the tutorial's transcript segments in stored order.
func (s *Store) ListSegments(ctx context.Context, tutorialID string) ([]align.Segment, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT start_seconds, end_seconds, transcript FROM transcript_segments
		WHERE tutorial_id = ? ORDER BY position`, tutorialID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segments []align.Segment
	for rows.Next() {
		var seg align.Segment
		if err := rows.Scan(&seg.Start, &seg.End, &seg.Transcript); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}
