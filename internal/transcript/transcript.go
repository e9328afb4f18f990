package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"clickscribe/internal/align"
	"clickscribe/internal/services"
	"clickscribe/internal/textutil"
)

// Format identifies a transcript encoding.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatDeepgram Format = "deepgram"
	FormatWhisper  Format = "whisper"
	FormatSegments Format = "segments"
	FormatSRT      Format = "srt"
)

// ParseFormat converts a user-provided name into a Format. An empty name
// selects FormatAuto.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatDeepgram:
		return FormatDeepgram, nil
	case FormatWhisper:
		return FormatWhisper, nil
	case FormatSegments:
		return FormatSegments, nil
	case FormatSRT:
		return FormatSRT, nil
	default:
		return "", services.Wrap(services.ErrValidation, "transcript", "parse format",
			fmt.Sprintf("unsupported format %q", value), nil)
	}
}

// Options controls parsing.
type Options struct {
	Format Format
	// MinConfidence drops segments whose reported confidence is lower. Zero
	// keeps everything; formats without confidence are never filtered.
	MinConfidence float64
}

// Result is a parsed transcript.
type Result struct {
	Format   Format
	Segments []align.Segment
	// Dropped counts segments discarded for empty text or low confidence.
	Dropped int
}

// rawSegment is a parser's view of a segment before the finishing pass.
type rawSegment struct {
	start      float64
	end        float64
	text       string
	confidence float64
	hasConf    bool
}

// Load reads and parses the transcript at path.
func Load(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, "transcript", "read", path, err)
	}
	return Parse(bytes.NewReader(data), path, opts)
}

// Parse reads a transcript from r. name is only used to pick a format by
// extension when opts.Format is FormatAuto.
func Parse(r io.Reader, name string, opts Options) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcript", "read", name, err)
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		format, err = Detect(name, data)
		if err != nil {
			return nil, err
		}
	}

	var raws []rawSegment
	switch format {
	case FormatDeepgram:
		raws, err = parseDeepgram(data)
	case FormatWhisper:
		raws, err = parseWhisper(data)
	case FormatSegments:
		raws, err = parseSegmentArray(data)
	case FormatSRT:
		raws, err = parseSRT(data)
	default:
		return nil, services.Wrap(services.ErrValidation, "transcript", "parse",
			fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "parse "+string(format), name, err)
	}

	segments, dropped, err := finish(raws, opts.MinConfidence)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "validate", name, err)
	}
	return &Result{Format: format, Segments: segments, Dropped: dropped}, nil
}

func finish(raws []rawSegment, minConfidence float64) ([]align.Segment, int, error) {
	segments := make([]align.Segment, 0, len(raws))
	dropped := 0
	for i, raw := range raws {
		if math.IsNaN(raw.start) || math.IsNaN(raw.end) || math.IsInf(raw.start, 0) || math.IsInf(raw.end, 0) {
			return nil, 0, fmt.Errorf("segment %d has a non-finite time", i)
		}
		if raw.end < raw.start {
			return nil, 0, fmt.Errorf("segment %d ends at %.3fs before it starts at %.3fs", i, raw.end, raw.start)
		}
		text := textutil.NormalizeTranscript(raw.text)
		if text == "" {
			dropped++
			continue
		}
		if raw.hasConf && minConfidence > 0 && raw.confidence < minConfidence {
			dropped++
			continue
		}
		segments = append(segments, align.Segment{Start: raw.start, End: raw.end, Transcript: text})
	}
	return segments, dropped, nil
}
