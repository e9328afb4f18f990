package testsupport

import (
	"path/filepath"
	"testing"

	"clickscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithClosestFallback enables the nearest-segment fallback with the given
// distance bound in seconds.
func WithClosestFallback(maxDistance float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.ClosestFallback = true
		b.cfg.Alignment.FallbackMaxDistanceSeconds = maxDistance
	}
}

// WithSortSteps makes the processor order steps by timestamp before aligning.
func WithSortSteps() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.SortSteps = true
	}
}

// WithMinConfidence sets the transcript import confidence floor.
func WithMinConfidence(value float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.MinConfidence = value
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
