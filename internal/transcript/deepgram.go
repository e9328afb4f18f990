package transcript

import (
	"encoding/json"
	"errors"
	"strings"
)

// pauseThreshold splits word-level output into segments wherever the gap
// between consecutive words exceeds it, in seconds.
const pauseThreshold = 0.8

type deepgramWord struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
}

type deepgramUtterance struct {
	Start      float64        `json:"start"`
	End        float64        `json:"end"`
	Transcript string         `json:"transcript"`
	Confidence *float64       `json:"confidence"`
	Words      []deepgramWord `json:"words"`
}

type deepgramSentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type deepgramAlternative struct {
	Transcript string         `json:"transcript"`
	Confidence float64        `json:"confidence"`
	Words      []deepgramWord `json:"words"`
	Paragraphs *struct {
		Paragraphs []struct {
			Sentences []deepgramSentence `json:"sentences"`
		} `json:"paragraphs"`
	} `json:"paragraphs"`
}

type deepgramResponse struct {
	Results *struct {
		Utterances []deepgramUtterance `json:"utterances"`
		Channels   []struct {
			Alternatives []deepgramAlternative `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// parseDeepgram prefers utterances, then paragraph sentences, then words
// grouped on pauses from the first channel's first alternative.
func parseDeepgram(data []byte) ([]rawSegment, error) {
	var resp deepgramResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, errors.New("deepgram response has no results")
	}

	if len(resp.Results.Utterances) > 0 {
		out := make([]rawSegment, 0, len(resp.Results.Utterances))
		for _, u := range resp.Results.Utterances {
			seg := rawSegment{start: u.Start, end: u.End, text: u.Transcript}
			if u.Confidence != nil {
				seg.confidence = *u.Confidence
				seg.hasConf = true
			}
			out = append(out, seg)
		}
		return out, nil
	}

	if len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		return nil, nil
	}
	alt := resp.Results.Channels[0].Alternatives[0]

	if alt.Paragraphs != nil {
		var out []rawSegment
		for _, para := range alt.Paragraphs.Paragraphs {
			for _, sentence := range para.Sentences {
				out = append(out, rawSegment{start: sentence.Start, end: sentence.End, text: sentence.Text})
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	return groupWords(alt.Words), nil
}

// groupWords joins consecutive words into segments, starting a new one after
// each pause longer than pauseThreshold. Segment confidence is the mean of
// its words.
func groupWords(words []deepgramWord) []rawSegment {
	if len(words) == 0 {
		return nil
	}
	var (
		out     []rawSegment
		parts   []string
		confSum float64
		current rawSegment
	)
	flush := func() {
		if len(parts) == 0 {
			return
		}
		current.text = strings.Join(parts, " ")
		current.confidence = confSum / float64(len(parts))
		current.hasConf = true
		out = append(out, current)
		parts = parts[:0]
		confSum = 0
	}

	for i, w := range words {
		if i > 0 && w.Start-words[i-1].End > pauseThreshold {
			flush()
		}
		if len(parts) == 0 {
			current = rawSegment{start: w.Start}
		}
		text := w.PunctuatedWord
		if text == "" {
			text = w.Word
		}
		parts = append(parts, text)
		confSum += w.Confidence
		current.end = w.End
	}
	flush()
	return out
}
