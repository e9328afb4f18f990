package transcript

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"clickscribe/internal/services"
)

// Detect guesses the format of data. A .srt extension wins; otherwise JSON
// payloads are told apart by their top-level shape and anything containing a
// cue arrow is treated as SubRip.
func Detect(name string, data []byte) (Format, error) {
	if strings.EqualFold(filepath.Ext(name), ".srt") {
		return FormatSRT, nil
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return "", services.Wrap(services.ErrValidation, "transcript", "detect format", "empty transcript", nil)
	}

	switch trimmed[0] {
	case '[':
		return FormatSegments, nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return "", services.Wrap(services.ErrValidation, "transcript", "detect format", "invalid json", err)
		}
		if _, ok := probe["results"]; ok {
			return FormatDeepgram, nil
		}
		if _, ok := probe["segments"]; ok {
			return FormatWhisper, nil
		}
	default:
		if bytes.Contains(trimmed, []byte("-->")) {
			return FormatSRT, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "transcript", "detect format",
		"unrecognized transcript layout; pass --format", nil)
}
