package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestRecordRoundtrip(t *testing.T) {
	r := NewRecorder()
	r.Start(16000)

	// A short 440Hz-ish ramp, pushed in two chunks like a capture callback.
	chunk := make([]float32, 800)
	for i := range chunk {
		chunk[i] = float32(math.Sin(float64(i) / 10))
	}
	if err := r.Push(chunk[:300]); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := r.Push(chunk[300:]); err != nil {
		t.Fatalf("Push: %v", err)
	}

	wavData, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if !bytes.HasPrefix(wavData, []byte("RIFF")) {
		t.Error("missing RIFF header")
	}
	if !bytes.Contains(wavData[:16], []byte("WAVE")) {
		t.Error("missing WAVE marker")
	}
	// RIFF chunk size covers everything after the first 8 bytes.
	riffSize := binary.LittleEndian.Uint32(wavData[4:8])
	if int(riffSize) != len(wavData)-8 {
		t.Errorf("RIFF size %d does not match file length %d", riffSize, len(wavData))
	}
	// 16-bit mono: two bytes per sample plus headers.
	if len(wavData) < len(chunk)*2 {
		t.Errorf("wav too small: %d bytes for %d samples", len(wavData), len(chunk))
	}

	if r.Recording() {
		t.Error("recorder still active after Stop")
	}
}

func TestPushWithoutStart(t *testing.T) {
	r := NewRecorder()

	err := r.Push([]float32{0.1, 0.2})
	if !errors.Is(err, ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := NewRecorder()

	_, err := r.Stop()
	if !errors.Is(err, ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestStopWithNoSamples(t *testing.T) {
	r := NewRecorder()
	r.Start(0)

	_, err := r.Stop()
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}

func TestStartDiscardsPreviousSession(t *testing.T) {
	r := NewRecorder()

	r.Start(8000)
	r.Push([]float32{0.5, 0.5, 0.5})

	// A new Start throws the old samples away.
	r.Start(8000)
	_, err := r.Stop()
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples after restart, got %v", err)
	}
}

func TestSamplesAreClamped(t *testing.T) {
	r := NewRecorder()
	r.Start(8000)
	r.Push([]float32{2.0, -2.0})

	wavData, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// The two samples live at the end of the file.
	tail := wavData[len(wavData)-4:]
	hi := int16(binary.LittleEndian.Uint16(tail[0:2]))
	lo := int16(binary.LittleEndian.Uint16(tail[2:4]))
	if hi != 32767 {
		t.Errorf("expected clamp to 32767, got %d", hi)
	}
	if lo != -32767 {
		t.Errorf("expected clamp to -32767, got %d", lo)
	}
}
