package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/skycastapp/skycast/internal/metrics"
	"github.com/skycastapp/skycast/internal/speech"
)

type voiceSession struct {
	src    speech.Source
	finish sync.Once
}

// StartVoice attaches a voice-recognition session to the search field.
// Transcripts are debounced; an adopted transcript becomes the search
// text, and one second later the session auto-stops and suggestions are
// fetched for it. Only one session may be active at a time.
func (c *Controller) StartVoice(src speech.Source) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("controller closed")
	}
	if c.voice != nil {
		c.mu.Unlock()
		return errors.New("voice session already active")
	}
	v := &voiceSession{src: src}
	c.voice = v
	c.mu.Unlock()

	metrics.VoiceSessionsTotal.Inc()
	go c.consumeTranscripts(v)
	return nil
}

// StopVoice ends the active session, if any. Safe to call when already
// stopped.
func (c *Controller) StopVoice() {
	c.mu.Lock()
	v := c.voice
	c.mu.Unlock()
	if v == nil {
		return
	}
	c.stopSession(v)
}

// StopVoiceSession ends the session reading from src, but only while it
// is still the active one. Holders of a stale handle cannot stop a
// session they did not start.
func (c *Controller) StopVoiceSession(src speech.Source) {
	c.mu.Lock()
	v := c.voice
	c.mu.Unlock()
	if v == nil || v.src != src {
		return
	}
	c.stopSession(v)
}

// stopSession clears v if it is still the active session and reports
// whether this call was the one that ended it. The auto-stop timer and
// explicit stops may race; at most one wins, and a timer armed by an
// already-replaced session is a no-op.
func (c *Controller) stopSession(v *voiceSession) bool {
	c.mu.Lock()
	if c.voice != v {
		c.mu.Unlock()
		return false
	}
	c.voice = nil
	c.mu.Unlock()

	c.voiceDebounce.Cancel()
	v.src.Stop()
	return true
}

func (c *Controller) consumeTranscripts(v *voiceSession) {
	for text := range v.src.Transcripts() {
		t := text
		c.voiceDebounce.Schedule(func(ctx context.Context) { c.adoptTranscript(ctx, v, t) })
	}
	if err := v.src.Err(); err != nil {
		log.Printf("controller: voice session ended: %v", err)
	}
}

func (c *Controller) adoptTranscript(ctx context.Context, v *voiceSession, text string) {
	if ctx.Err() != nil {
		return
	}
	text = strings.TrimSpace(text)

	c.mu.Lock()
	current := c.snap.Query
	c.mu.Unlock()
	if text == "" || text == current {
		return
	}

	c.SetQuery(text)

	v.finish.Do(func() {
		time.AfterFunc(c.voiceStopDelay, func() {
			if c.stopSession(v) {
				c.triggerSuggestions()
			}
		})
	})
}

// triggerSuggestions runs an immediate (non-debounced) suggestion fetch
// for the current query, used when a voice session hands off.
func (c *Controller) triggerSuggestions() {
	c.mu.Lock()
	query := strings.TrimSpace(c.snap.Query)
	closed := c.closed
	c.mu.Unlock()

	if closed || utf8.RuneCountInString(query) < minQueryRunes {
		return
	}
	c.fetchSuggestions(context.Background(), query)
}
