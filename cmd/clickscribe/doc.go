// Command clickscribe stores click-through tutorials and attaches spoken
// narration to each captured step.
//
// A typical session creates a tutorial from a capture manifest, imports the
// speech-to-text transcript, and runs alignment:
//
//	clickscribe tutorial create --manifest session.yaml
//	clickscribe transcript import <tutorial-id> deepgram.json
//	clickscribe align <tutorial-id>
//	clickscribe tutorial show <tutorial-id>
//
// Configuration is read from ~/.config/clickscribe/config.toml, or
// ./clickscribe.toml, or the path given with --config.
package main
