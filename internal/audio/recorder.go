// Package audio collects raw PCM sample buffers pushed by the capture layer
// and renders a finished recording as a WAV file.
//
// The capture device lives with the UI host; this side only ever sees
// float32 sample chunks. The active capture run is held as an opaque
// session handle reachable through Start, Push and Stop alone.
package audio

import (
	"errors"
	"sync"
)

// DefaultSampleRate is used when the capture layer does not report one.
const DefaultSampleRate = 44100

var (
	// ErrNotRecording is returned when samples arrive or Stop is called
	// without an active session.
	ErrNotRecording = errors.New("no active recording")

	// ErrNoSamples is returned by Stop when nothing was captured.
	ErrNoSamples = errors.New("no audio data recorded")
)

// session is the handle for one capture run.
type session struct {
	sampleRate int
	samples    []float32
}

// Recorder accumulates samples for at most one session at a time.
type Recorder struct {
	mu      sync.Mutex
	current *session
}

// NewRecorder creates an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins a new session, discarding any unfinished one.
func (r *Recorder) Start(sampleRate int) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &session{sampleRate: sampleRate}
}

// Push appends a chunk of captured samples to the active session.
func (r *Recorder) Push(samples []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ErrNotRecording
	}
	r.current.samples = append(r.current.samples, samples...)
	return nil
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Stop ends the session and returns the recording as mono 16-bit PCM WAV.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	sess := r.current
	r.current = nil
	r.mu.Unlock()

	if sess == nil {
		return nil, ErrNotRecording
	}
	if len(sess.samples) == 0 {
		return nil, ErrNoSamples
	}
	return encodeWAV(sess.samples, sess.sampleRate)
}
