package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/skycastapp/skycast/internal/speech"
)

// voiceSessionGrace bounds how long an orphaned session may linger after
// the upload ends without a transcript ever being adopted.
const voiceSessionGrace = 5 * time.Second

// handleVoice bridges an audio upload into a voice search session. The
// request body is multipart; each part is one recorded audio segment.
// Transcription runs while the upload streams, and the controller's
// debounce/auto-stop behavior is the same as for an on-device recorder.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.openAIKey == "" {
		// Capability not granted: degrade, don't crash.
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "voice search is not configured"})
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart audio body required"})
		return
	}

	rec := speech.NewChanRecorder(16)
	tr, err := speech.NewTranscriber(s.openAIKey, rec)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "voice search is not configured"})
		return
	}

	// The session outlives this request: pending transcripts are still
	// debounced into the search field after the upload ends.
	tr.Start(context.Background())

	if err := s.ctrl.StartVoice(tr); err != nil {
		tr.Stop()
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("httpapi: read audio part: %v", err)
			break
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			log.Printf("httpapi: read audio part: %v", err)
			break
		}
		if len(data) == 0 {
			continue
		}
		if !rec.Push(data) {
			break
		}
	}
	rec.Close()

	// Auto-stop normally ends the session once a transcript is adopted;
	// the grace timer catches sessions where none ever is. The stop is
	// bound to this session so the timer cannot kill a later one.
	time.AfterFunc(voiceSessionGrace, func() { s.ctrl.StopVoiceSession(tr) })

	writeJSON(w, http.StatusAccepted, s.ctrl.Snapshot())
}

func (s *Server) handleVoiceStop(w http.ResponseWriter, r *http.Request) {
	s.ctrl.StopVoice()
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}
