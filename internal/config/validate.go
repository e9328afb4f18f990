package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateAlignment() error {
	distance := c.Alignment.FallbackMaxDistanceSeconds
	if distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return errors.New("alignment.fallback_max_distance_seconds must be zero or a positive number")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.DefaultFormat {
	case "auto", "deepgram", "whisper", "segments", "srt":
	default:
		return fmt.Errorf("transcription.default_format: unsupported value %q", c.Transcription.DefaultFormat)
	}
	if c.Transcription.MinConfidence < 0 || c.Transcription.MinConfidence > 1 {
		return errors.New("transcription.min_confidence must be between 0 and 1")
	}
	return nil
}
