// Package capture loads the step manifests recorded by the browser extension
// and imports them into the tutorial store.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"clickscribe/internal/align"
	"clickscribe/internal/services"
	"clickscribe/internal/store"
)

// Manifest is a recorded click-through session. JSON manifests decode through
// the same path since JSON is valid YAML.
//
// Example:
//
//	title: "Create a project"
//	steps:
//	  - timestamp_start: 0
//	    action: click
//	    url: https://app.example.com/projects
//	    screenshot: shots/0001.png
type Manifest struct {
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps"`
}

// Step is one captured action. TimestampStart is milliseconds from the start
// of the recording.
type Step struct {
	ID             string `yaml:"id"`
	TimestampStart int64  `yaml:"timestamp_start"`
	Action         string `yaml:"action"`
	URL            string `yaml:"url"`
	Screenshot     string `yaml:"screenshot"`
}

// StepAdder is the store surface Import needs.
type StepAdder interface {
	AddSteps(ctx context.Context, tutorialID string, steps []store.NewStep) ([]store.Step, error)
}

// TutorialCreator is the store surface Create needs.
type TutorialCreator interface {
	CreateTutorialWithSteps(ctx context.Context, title string, steps []store.NewStep) (*store.Tutorial, []store.Step, error)
}

// LoadFile reads and validates a manifest from disk.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, "capture", "open manifest", path, err)
	}
	defer f.Close()

	m, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("capture: manifest %q: %w", path, err)
	}
	return m, nil
}

// LoadFromReader parses a manifest, assigns ids to steps that lack one, and
// validates it. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrValidation, "capture", "decode manifest", "empty manifest", nil)
		}
		return nil, services.Wrap(services.ErrValidation, "capture", "decode manifest", "", err)
	}
	m.Title = strings.TrimSpace(m.Title)
	m.assignIDs()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) assignIDs() {
	for i := range m.Steps {
		m.Steps[i].ID = strings.TrimSpace(m.Steps[i].ID)
		if m.Steps[i].ID == "" {
			m.Steps[i].ID = uuid.NewString()
		}
	}
}

// Validate checks timestamps are non-negative and ids are unique.
func (m *Manifest) Validate() error {
	seen := make(map[string]int, len(m.Steps))
	for i, step := range m.Steps {
		if step.TimestampStart < 0 {
			return services.Wrap(services.ErrValidation, "capture", "validate manifest",
				fmt.Sprintf("step %d has negative timestamp_start %d", i, step.TimestampStart), nil)
		}
		if prev, ok := seen[step.ID]; ok {
			return services.Wrap(services.ErrValidation, "capture", "validate manifest",
				fmt.Sprintf("steps %d and %d share id %q", prev, i, step.ID), nil)
		}
		seen[step.ID] = i
	}
	return nil
}

// Sorted reports whether steps are in ascending timestamp order.
func (m *Manifest) Sorted() bool {
	markers := make([]align.Step, len(m.Steps))
	for i, step := range m.Steps {
		markers[i] = align.Step{ID: step.ID, TimestampStart: step.TimestampStart}
	}
	return align.Sorted(markers)
}

// SortSteps orders steps by timestamp, keeping capture order for ties.
func (m *Manifest) SortSteps() {
	sort.SliceStable(m.Steps, func(i, j int) bool {
		return m.Steps[i].TimestampStart < m.Steps[j].TimestampStart
	})
}

// NewSteps converts the manifest into store input.
func (m *Manifest) NewSteps() []store.NewStep {
	out := make([]store.NewStep, len(m.Steps))
	for i, step := range m.Steps {
		out[i] = store.NewStep{
			ID:             step.ID,
			TimestampStart: step.TimestampStart,
			Action:         strings.TrimSpace(step.Action),
			URL:            strings.TrimSpace(step.URL),
			ScreenshotPath: strings.TrimSpace(step.Screenshot),
		}
	}
	return out
}

// Import appends the manifest's steps to a tutorial and returns how many were
// stored.
func Import(ctx context.Context, adder StepAdder, tutorialID string, m *Manifest) (int, error) {
	if m == nil {
		return 0, errors.New("capture: manifest must not be nil")
	}
	stored, err := adder.AddSteps(ctx, tutorialID, m.NewSteps())
	if err != nil {
		return 0, classifyStoreError("import steps", tutorialID, err)
	}
	return len(stored), nil
}

// Create stores a new tutorial together with the manifest's steps. When the
// steps cannot be stored the tutorial is not created either.
func Create(ctx context.Context, creator TutorialCreator, title string, m *Manifest) (*store.Tutorial, error) {
	if m == nil {
		return nil, errors.New("capture: manifest must not be nil")
	}
	if strings.TrimSpace(title) == "" {
		title = m.Title
	}
	tutorial, _, err := creator.CreateTutorialWithSteps(ctx, title, m.NewSteps())
	if err != nil {
		return nil, classifyStoreError("create tutorial", title, err)
	}
	return tutorial, nil
}

func classifyStoreError(operation, subject string, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateStep), errors.Is(err, store.ErrEmptyTitle):
		return services.Wrap(services.ErrValidation, "capture", operation, subject, err)
	case store.IsNotFound(err):
		return services.Wrap(services.ErrNotFound, "capture", operation, subject, err)
	}
	return fmt.Errorf("capture: %s %s: %w", operation, subject, err)
}
