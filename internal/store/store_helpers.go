package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const tutorialColumns = `t.id, t.title, t.status, t.error_message, t.transcript_source,
	t.created_at, t.updated_at, t.aligned_at,
	(SELECT COUNT(1) FROM steps s WHERE s.tutorial_id = t.id),
	(SELECT COUNT(1) FROM transcript_segments g WHERE g.tutorial_id = t.id)`

func scanTutorial(scanner rowScanner) (*Tutorial, error) {
	var (
		tutorial  Tutorial
		status    string
		errMsg    sql.NullString
		source    sql.NullString
		createdAt string
		updatedAt string
		alignedAt sql.NullString
	)
	if err := scanner.Scan(
		&tutorial.ID,
		&tutorial.Title,
		&status,
		&errMsg,
		&source,
		&createdAt,
		&updatedAt,
		&alignedAt,
		&tutorial.StepCount,
		&tutorial.SegmentCount,
	); err != nil {
		return nil, err
	}
	tutorial.Status = Status(status)
	tutorial.ErrorMessage = errMsg.String
	tutorial.TranscriptSource = source.String

	var err error
	if tutorial.CreatedAt, err = parseTimeString(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if tutorial.UpdatedAt, err = parseTimeString(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if alignedAt.Valid && alignedAt.String != "" {
		ts, err := parseTimeString(alignedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse aligned_at: %w", err)
		}
		tutorial.AlignedAt = &ts
	}
	return &tutorial, nil
}

const stepColumns = `id, tutorial_id, sequence, timestamp_start, timestamp_end,
	text_content, action, url, screenshot_path, fallback`

func scanStep(scanner rowScanner) (Step, error) {
	var (
		step       Step
		end        sql.NullInt64
		action     sql.NullString
		url        sql.NullString
		screenshot sql.NullString
		fallback   int
	)
	if err := scanner.Scan(
		&step.ID,
		&step.TutorialID,
		&step.Sequence,
		&step.TimestampStart,
		&end,
		&step.TextContent,
		&action,
		&url,
		&screenshot,
		&fallback,
	); err != nil {
		return Step{}, err
	}
	if end.Valid {
		v := end.Int64
		step.TimestampEnd = &v
	}
	step.Action = action.String
	step.URL = url.String
	step.ScreenshotPath = screenshot.String
	step.Fallback = fallback != 0
	return step, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

var nowUTC = func() time.Time { return time.Now().UTC() }
