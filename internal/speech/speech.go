// Package speech surfaces an external speech-to-text capability as a
// live stream of cumulative transcript strings.
package speech

// Source is a running voice-recognition session as the rest of the app
// consumes it. Transcripts carries cumulative (not incremental) text and
// closes when the session ends. Stop must be idempotent: it is triggered
// both by explicit user action and by the auto-stop timer.
type Source interface {
	Transcripts() <-chan string
	Stop()
	Err() error
}

// Recorder yields captured audio segments while recording is active.
// Close releases the underlying audio resources and must be safe to call
// more than once.
type Recorder interface {
	Segments() <-chan []byte
	Close() error
}
