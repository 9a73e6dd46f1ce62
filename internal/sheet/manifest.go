package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"skin-animator/internal/timeline"
)

// KeyframeEntry describes one keyframe thumbnail.
type KeyframeEntry struct {
	Index  int     `json:"index"`
	ID     string  `json:"id"`
	Time   float64 `json:"time"`
	Locked bool    `json:"locked"`
	Image  string  `json:"image,omitempty"`
}

// FrameEntry describes one sampled playback frame.
type FrameEntry struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Image string  `json:"image"`
}

// Manifest indexes the files of a render run.
type Manifest struct {
	Scene     string          `json:"scene"`
	FPS       float64         `json:"fps"`
	MaxTime   float64         `json:"max_time"`
	Keyframes []KeyframeEntry `json:"keyframes"`
	Frames    []FrameEntry    `json:"frames"`
}

// KeyframeName is the image name of keyframe i.
func KeyframeName(i int) string { return fmt.Sprintf("keyframes/%03d", i) }

// FrameName is the image name of playback frame i.
func FrameName(i int) string { return fmt.Sprintf("frames/%05d", i) }

// NewManifest lists the store's keyframes. Keyframes without a thumbnail
// get no image entry.
func NewManifest(scene string, fps float64, store *timeline.Store) Manifest {
	m := Manifest{Scene: scene, FPS: fps, MaxTime: store.MaxTime()}
	times, locked := store.Times(), store.Locked()
	for i, kf := range store.Keyframes() {
		e := KeyframeEntry{Index: i, ID: kf.ID, Time: times[i], Locked: locked[i]}
		if kf.Thumbnail != nil {
			e.Image = KeyframeName(i) + ".webp"
		}
		m.Keyframes = append(m.Keyframes, e)
	}
	return m
}

// AddFrames appends n frames sampled every 1/fps from time 0.
func (m *Manifest) AddFrames(n int) {
	for i := 0; i < n; i++ {
		t := 0.0
		if m.FPS > 0 {
			t = float64(i) / m.FPS
		}
		m.Frames = append(m.Frames, FrameEntry{Index: i, Time: t, Image: FrameName(i) + ".webp"})
	}
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
