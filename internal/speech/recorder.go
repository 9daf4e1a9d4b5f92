package speech

import "sync"

// ChanRecorder adapts an in-memory feed of audio segments to the
// Recorder interface. The HTTP layer uses it to bridge uploaded audio
// into a transcription session; tests use it directly.
type ChanRecorder struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func NewChanRecorder(buffer int) *ChanRecorder {
	return &ChanRecorder{ch: make(chan []byte, buffer)}
}

// Push enqueues one audio segment. It reports false once the recorder is
// closed or the buffer is full; a stopped session drops audio rather
// than blocking the producer.
func (r *ChanRecorder) Push(segment []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.ch <- segment:
		return true
	default:
		return false
	}
}

func (r *ChanRecorder) Segments() <-chan []byte { return r.ch }

func (r *ChanRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	return nil
}
