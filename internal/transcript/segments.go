package transcript

import "encoding/json"

// segmentRecord accepts both "transcript" and "text" keys so exported
// aligner input round-trips.
type segmentRecord struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Transcript string   `json:"transcript"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

func parseSegmentArray(data []byte) ([]rawSegment, error) {
	var records []segmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	out := make([]rawSegment, 0, len(records))
	for _, rec := range records {
		text := rec.Transcript
		if text == "" {
			text = rec.Text
		}
		seg := rawSegment{start: rec.Start, end: rec.End, text: text}
		if rec.Confidence != nil {
			seg.confidence = *rec.Confidence
			seg.hasConf = true
		}
		out = append(out, seg)
	}
	return out, nil
}
