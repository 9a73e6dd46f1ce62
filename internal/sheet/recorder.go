package sheet

import (
	"errors"
	"image"
	"sync"
)

// ErrNotRecording is returned by Stop when no recording is running.
var ErrNotRecording = errors.New("sheet: not recording")

// Recorder collects rendered frames while playback records.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	frames    []*image.NRGBA
}

// Start begins a new recording, dropping frames of the previous one.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	r.frames = nil
	return nil
}

// Stop ends the recording. The frames stay available.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return ErrNotRecording
	}
	r.recording = false
	return nil
}

// Recording reports whether frames are being collected.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Add appends img while recording and reports whether it was kept.
func (r *Recorder) Add(img *image.NRGBA) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return false
	}
	r.frames = append(r.frames, img)
	return true
}

// Frames returns the collected frames.
func (r *Recorder) Frames() []*image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*image.NRGBA(nil), r.frames...)
}
