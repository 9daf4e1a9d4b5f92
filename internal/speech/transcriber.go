package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Transcriber turns recorded audio segments into a cumulative transcript
// stream using OpenAI's audio transcription API. It implements Source.
type Transcriber struct {
	client openai.Client
	rec    Recorder
	out    chan string

	// transcribe is swapped out in tests to avoid network calls.
	transcribe func(ctx context.Context, segment []byte) (string, error)

	stopOnce sync.Once
	cancel   context.CancelFunc

	mu  sync.Mutex
	err error
}

// NewTranscriber builds a transcriber for one recording session. The API
// key is required; callers without one should disable voice search
// instead of constructing a session.
func NewTranscriber(apiKey string, rec Recorder) (*Transcriber, error) {
	if apiKey == "" {
		return nil, errors.New("speech: API key not set")
	}
	t := &Transcriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		rec:    rec,
		out:    make(chan string, 8),
	}
	t.transcribe = t.transcribeSegment
	return t, nil
}

// Start begins consuming audio segments. The transcript channel closes
// when the recorder closes, the context is cancelled, or Stop is called.
func (t *Transcriber) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go t.run(ctx)
}

func (t *Transcriber) run(ctx context.Context) {
	defer close(t.out)

	var full string
	for {
		select {
		case <-ctx.Done():
			return
		case segment, ok := <-t.rec.Segments():
			if !ok {
				return
			}
			text, err := t.transcribe(ctx, segment)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				t.setErr(err)
				log.Printf("speech: transcribe segment: %v", err)
				continue
			}
			if text == "" {
				continue
			}
			if full == "" {
				full = text
			} else {
				full += " " + text
			}
			select {
			case t.out <- full:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (t *Transcriber) transcribeSegment(ctx context.Context, segment []byte) (string, error) {
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(segment), "segment.wav", "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Transcripts returns the cumulative transcript stream.
func (t *Transcriber) Transcripts() <-chan string { return t.out }

// Stop ends the session and releases the recorder. Safe to call multiple
// times, including after the stream has already ended.
func (t *Transcriber) Stop() {
	t.stopOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
		}
		if err := t.rec.Close(); err != nil {
			log.Printf("speech: close recorder: %v", err)
		}
	})
}

// Err reports the last transcription failure, if any. A failed segment
// does not end the session.
func (t *Transcriber) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Transcriber) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}
