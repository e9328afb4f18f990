package transcript

import "encoding/json"

type whisperSegment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

type whisperPayload struct {
	Segments []whisperSegment `json:"segments"`
}

func parseWhisper(data []byte) ([]rawSegment, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return fromWhisperSegments(payload.Segments), nil
}

func fromWhisperSegments(segments []whisperSegment) []rawSegment {
	out := make([]rawSegment, 0, len(segments))
	for _, s := range segments {
		seg := rawSegment{start: s.Start, end: s.End, text: s.Text}
		if s.Confidence != nil {
			seg.confidence = *s.Confidence
			seg.hasConf = true
		}
		out = append(out, seg)
	}
	return out
}
