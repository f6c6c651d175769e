// internal/services/stream.go
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DulceVida/MagoChat/internal/models"
)

// StreamChunk is one increment of a simulated streaming reply. Text chunks
// carry one word plus a trailing space. The final chunk of a stream may carry
// only metadata (trigger, location request) with empty text — consumers must
// not render it as text.
type StreamChunk struct {
	Text                  string          `json:"text"`
	Trigger               *models.Trigger `json:"trigger,omitempty"`
	Actions               []models.Action `json:"actions,omitempty"`
	AudioFile             string          `json:"audio_file,omitempty"`
	ShouldRequestLocation bool            `json:"should_request_location,omitempty"`
	Final                 bool            `json:"final"`
}

// Streamer turns a finished reply into a lazy word-by-word sequence,
// mimicking token-by-token generation for a UI that renders incrementally.
// There is no real I/O behind it; the delays are the only suspension points.
// The pace can be retuned at runtime; streams already in flight keep the
// pace they started with.
type Streamer struct {
	mu           sync.Mutex
	initialDelay time.Duration
	chunkDelay   time.Duration
}

// NewStreamer creates a streamer with the configured pace.
func NewStreamer(initialDelay, chunkDelay time.Duration) *Streamer {
	return &Streamer{initialDelay: initialDelay, chunkDelay: chunkDelay}
}

// SetPace changes the delays used by subsequent streams.
func (s *Streamer) SetPace(initialDelay, chunkDelay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialDelay = initialDelay
	s.chunkDelay = chunkDelay
}

// Pace returns the current delays.
func (s *Streamer) Pace() (initialDelay, chunkDelay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialDelay, s.chunkDelay
}

// Stream emits reply word by word on the returned channel: one leading delay,
// then each word with the inter-chunk delay, then — if the reply carries a
// trigger, actions, audio or a location request — one final metadata-only
// chunk. Cancelling ctx stops the pending timers immediately so an abandoned
// stream can never write into a torn-down consumer; the channel is always
// closed.
func (s *Streamer) Stream(ctx context.Context, reply TurnReply) <-chan StreamChunk {
	out := make(chan StreamChunk)
	initialDelay, chunkDelay := s.Pace()

	go func() {
		defer close(out)

		if !s.wait(ctx, initialDelay) {
			return
		}

		words := strings.Fields(reply.Text)
		for i, word := range words {
			if i > 0 && !s.wait(ctx, chunkDelay) {
				return
			}

			chunk := StreamChunk{Text: word + " "}
			if i == len(words)-1 && !reply.hasMetadata() {
				chunk.Final = true
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}

		if reply.hasMetadata() {
			final := StreamChunk{
				Trigger:               reply.Trigger,
				Actions:               reply.Actions,
				AudioFile:             reply.AudioFile,
				ShouldRequestLocation: reply.ShouldRequestLocation,
				Final:                 true,
			}
			select {
			case out <- final:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

// wait sleeps for d unless ctx is cancelled first. Returns false on cancel.
func (s *Streamer) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
