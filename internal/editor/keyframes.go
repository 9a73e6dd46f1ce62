package editor

import (
	"errors"
	"image"

	"skin-animator/internal/playback"
	"skin-animator/internal/timeline"
)

// newKeyframe snapshots the current pose and camera. The thumbnail is
// rendered inline.
func (e *Editor) newKeyframe() timeline.Keyframe {
	var thumb *image.NRGBA
	if e.opts.Thumbnailer != nil {
		thumb = e.opts.Thumbnailer.Thumbnail(e.scene, e.camera)
	}
	return timeline.NewKeyframe(e.scene.Skeleton, e.camera.Snapshot(), thumb)
}

// Capture stores the current pose as a new keyframe at the scrubber. It is
// ignored during playback or without a scene. Hitting the keyframe limit is
// not reported to the user.
func (e *Editor) Capture() error {
	_, err := e.CaptureKeyframe()
	return err
}

// CaptureKeyframe is Capture returning the new keyframe's index, or -1 when
// nothing was captured.
func (e *Editor) CaptureKeyframe() (int, error) {
	if e.player.Playing() || !e.ready() {
		return -1, nil
	}
	if e.store.Len() >= e.store.Limit() {
		e.log.Debug().Int("limit", e.store.Limit()).Msg("capture rejected: keyframe limit")
		return -1, timeline.ErrCapacity
	}

	kf := e.newKeyframe()
	i, err := e.store.Capture(kf, e.player.Scrubber)
	if err != nil {
		e.log.Debug().Err(err).Float64("scrubber", e.player.Scrubber).Msg("capture rejected")
		return -1, err
	}
	e.log.Debug().Int("index", i).Str("id", kf.ID).Floats64("times", e.store.Times()).Msg("keyframe captured")

	if e.store.Len() > 1 {
		e.scrubberFrame()
	}
	return i, nil
}

// UpdateSelected replaces the selected keyframe with the current pose.
func (e *Editor) UpdateSelected() error {
	if e.state.Selected < 0 {
		e.notify(NoSelection)
		return nil
	}
	if !e.ready() {
		return nil
	}
	kf := e.newKeyframe()
	if err := e.store.Update(e.state.Selected, kf); err != nil {
		return err
	}
	e.log.Debug().Int("index", e.state.Selected).Str("id", kf.ID).Msg("keyframe updated")
	e.scrubberFrame()
	return nil
}

// DeleteSelected removes the selected keyframe and clears the selection.
func (e *Editor) DeleteSelected() error {
	if e.state.Selected < 0 {
		e.notify(NoSelection)
		return nil
	}
	i := e.state.Selected
	if err := e.store.Delete(i); err != nil {
		return err
	}
	e.state.Selected = -1
	e.state.HoveredTick = -1
	e.log.Debug().Int("index", i).Floats64("times", e.store.Times()).Msg("keyframe deleted")
	e.scrubberFrame()
	return nil
}

// LockSelected toggles the selected tick's lock and clears the selection.
func (e *Editor) LockSelected() error {
	if e.player.Playing() {
		return nil
	}
	if e.state.Selected < 0 {
		e.notify(NoSelection)
		return nil
	}
	if err := e.store.ToggleLock(e.state.Selected); err != nil {
		return err
	}
	e.state.Selected = -1
	return nil
}

// PreviewSelected poses the skeleton exactly as the selected keyframe.
func (e *Editor) PreviewSelected() error {
	if e.state.Selected < 0 {
		e.notify(NoSelection)
		return nil
	}
	kf, ok := e.store.Keyframe(e.state.Selected)
	if !ok {
		return timeline.ErrIndex
	}
	if !e.ready() {
		return nil
	}
	if snap, ok := playback.Apply(e.scene.Skeleton, kf); ok {
		e.camera.Restore(snap)
	}
	return nil
}

// Select picks keyframe i for the keyframe commands; -1 clears.
func (e *Editor) Select(i int) error {
	if i < -1 || i >= e.store.Len() {
		return timeline.ErrIndex
	}
	e.state.Selected = i
	return nil
}

// TogglePlayback starts or stops playback. Starting clears the selection
// and hover state; with record set the recorder runs until playback ends.
func (e *Editor) TogglePlayback(record bool) error {
	started, err := e.player.Toggle(e.store.Len(), record)
	if started {
		e.state.Selected = -1
		e.state.HoveredTick = -1
		e.state.HoveredBone = -1
		e.manip.End()
		e.state.Dragging = false
		e.log.Info().Float64("from", e.player.Time).Bool("record", record).Msg("playback started")
	}
	return err
}

// Scrub moves the scrubber to x in [0,1] and poses the skeleton there.
func (e *Editor) Scrub(x float64) {
	if e.player.Playing() {
		return
	}
	e.player.Scrubber = min(max(x, 0), 1)
	e.scrubberFrame()
}

// RetimeSelected moves the selected tick to x. Locked ticks and times
// outside the neighbouring anchors are rejected without change.
func (e *Editor) RetimeSelected(x float64) error {
	if e.player.Playing() {
		return nil
	}
	if e.state.Selected < 0 {
		e.notify(NoSelection)
		return nil
	}
	if err := e.store.SetTime(e.state.Selected, x); err != nil {
		if !errors.Is(err, timeline.ErrIndex) {
			e.log.Debug().Err(err).Int("index", e.state.Selected).Float64("to", x).Msg("retime rejected")
		}
		return err
	}
	e.log.Debug().Int("index", e.state.Selected).Floats64("times", e.store.Times()).Msg("keyframe retimed")
	e.scrubberFrame()
	return nil
}

// MoveKeyframe reorders the keyframe panel. The selection follows the
// moved keyframe.
func (e *Editor) MoveKeyframe(from, to int) error {
	if err := e.store.Move(from, to); err != nil {
		return err
	}
	switch sel := e.state.Selected; {
	case sel == from:
		e.state.Selected = to
	case from < sel && sel <= to:
		e.state.Selected--
	case to <= sel && sel < from:
		e.state.Selected++
	}
	e.scrubberFrame()
	return nil
}
