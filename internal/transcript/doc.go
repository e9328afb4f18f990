// Package transcript converts speech-to-text output into the timed segments
// the aligner consumes.
//
// Supported inputs are Deepgram pre-recorded responses (utterances, with a
// word-level fallback that splits on pauses), Whisper-style segment payloads,
// plain JSON segment arrays, and SubRip files. Load picks a parser from the
// requested Format, sniffing the content when the format is FormatAuto.
//
// Every parser funnels through the same finishing pass: text is normalized,
// segments left without text are dropped, and segments whose reported
// confidence falls below Options.MinConfidence are discarded. Segment order is
// preserved exactly as the source lists it.
package transcript
