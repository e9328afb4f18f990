package align

// Step marks a captured tutorial action.
type Step struct {
	ID             string `json:"id"`
	TimestampStart int64  `json:"timestampStart"`
}

// Segment is a span of recognized speech. Start and End are seconds.
type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Transcript string  `json:"transcript"`
}

// AlignedStep is the text and end boundary attributed to one step.
// TimestampEnd is nil for a final step that received no speech.
type AlignedStep struct {
	StepID       string `json:"stepId"`
	TextContent  string `json:"textContent"`
	TimestampEnd *int64 `json:"timestampEnd"`
}
