package store

import (
	"time"

	"clickscribe/internal/align"
)

// Status represents the lifecycle of a tutorial.
type Status string

const (
	StatusPending Status = "pending"
	StatusAligned Status = "aligned"
	StatusFailed  Status = "failed"
	StatusReview  Status = "review"
)

var allStatuses = []Status{StatusPending, StatusAligned, StatusFailed, StatusReview}

// AllStatuses returns every tutorial status in display order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a string into a Status.
func ParseStatus(value string) (Status, bool) {
	for _, status := range allStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// Tutorial is a recorded click-through tutorial.
type Tutorial struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           Status     `json:"status"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	TranscriptSource string     `json:"transcriptSource,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	AlignedAt        *time.Time `json:"alignedAt,omitempty"`
	StepCount        int        `json:"stepCount"`
	SegmentCount     int        `json:"segmentCount"`
}

// Step is a captured action with its aligned narration.
type Step struct {
	ID             string `json:"id"`
	TutorialID     string `json:"tutorialId"`
	Sequence       int    `json:"sequence"`
	TimestampStart int64  `json:"timestampStart"`
	TimestampEnd   *int64 `json:"timestampEnd"`
	TextContent    string `json:"textContent"`
	Action         string `json:"action,omitempty"`
	URL            string `json:"url,omitempty"`
	ScreenshotPath string `json:"screenshotPath,omitempty"`
	// Fallback is set when TextContent came from the closest segment rather
	// than an overlapping one.
	Fallback bool `json:"fallback"`
}

// Marker returns the alignment input for the step.
func (s Step) Marker() align.Step {
	return align.Step{ID: s.ID, TimestampStart: s.TimestampStart}
}

// NewStep describes a step to append to a tutorial. An empty ID is replaced
// with a generated one.
type NewStep struct {
	ID             string
	TimestampStart int64
	Action         string
	URL            string
	ScreenshotPath string
}

// StepUpdate carries aligned output for one step.
type StepUpdate struct {
	StepID       string
	TextContent  string
	TimestampEnd *int64
	Fallback     bool
}

// Stats summarizes tutorials per status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}
