package speech

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestTranscriber(t *testing.T, rec Recorder, transcribe func(context.Context, []byte) (string, error)) *Transcriber {
	t.Helper()
	tr := &Transcriber{
		rec: rec,
		out: make(chan string, 8),
	}
	tr.transcribe = transcribe
	return tr
}

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, s)
		case <-timeout:
			t.Fatalf("timed out waiting for transcript stream to close, got %v", got)
		}
	}
}

func TestTranscriber_CumulativeTranscripts(t *testing.T) {
	rec := NewChanRecorder(4)
	tr := newTestTranscriber(t, rec, func(_ context.Context, segment []byte) (string, error) {
		return string(segment), nil
	})
	tr.Start(context.Background())

	rec.Push([]byte("weather"))
	rec.Push([]byte("in"))
	rec.Push([]byte("pune"))
	rec.Close()

	got := collect(t, tr.Transcripts())
	want := []string{"weather", "weather in", "weather in pune"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transcript %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTranscriber_FailedSegmentDoesNotEndSession(t *testing.T) {
	rec := NewChanRecorder(4)
	var n int
	tr := newTestTranscriber(t, rec, func(_ context.Context, segment []byte) (string, error) {
		n++
		if n == 2 {
			return "", errors.New("garbled audio")
		}
		return string(segment), nil
	})
	tr.Start(context.Background())

	rec.Push([]byte("weather"))
	rec.Push([]byte("xxx"))
	rec.Push([]byte("pune"))
	rec.Close()

	got := collect(t, tr.Transcripts())
	if len(got) != 2 || got[1] != "weather pune" {
		t.Errorf("got %v, want [weather, weather pune]", got)
	}
	if tr.Err() == nil {
		t.Error("expected recorded transcription error")
	}
}

func TestTranscriber_EmptySegmentsSkipped(t *testing.T) {
	rec := NewChanRecorder(4)
	tr := newTestTranscriber(t, rec, func(_ context.Context, segment []byte) (string, error) {
		return "", nil
	})
	tr.Start(context.Background())

	rec.Push([]byte("silence"))
	rec.Close()

	if got := collect(t, tr.Transcripts()); len(got) != 0 {
		t.Errorf("expected no transcripts, got %v", got)
	}
}

func TestTranscriber_StopIsIdempotent(t *testing.T) {
	rec := NewChanRecorder(4)
	tr := newTestTranscriber(t, rec, func(_ context.Context, segment []byte) (string, error) {
		return string(segment), nil
	})
	tr.Start(context.Background())

	tr.Stop()
	tr.Stop()
	tr.Stop()

	collect(t, tr.Transcripts())

	if rec.Push([]byte("late")) {
		t.Error("expected pushes after stop to be rejected")
	}
}

func TestChanRecorder_DropsWhenFull(t *testing.T) {
	rec := NewChanRecorder(1)
	if !rec.Push([]byte("a")) {
		t.Fatal("first push should fit")
	}
	if rec.Push([]byte("b")) {
		t.Error("second push should be dropped, buffer is full")
	}
}

func TestNewTranscriber_RequiresKey(t *testing.T) {
	if _, err := NewTranscriber("", NewChanRecorder(1)); err == nil {
		t.Error("expected error without API key")
	}
	if _, err := NewTranscriber("sk-test", NewChanRecorder(1)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

var _ Source = (*Transcriber)(nil)
