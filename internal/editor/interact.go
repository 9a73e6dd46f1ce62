package editor

import (
	"skin-animator/internal/picking"
)

func (e *Editor) ray(x, y float64) picking.Ray {
	return picking.ScreenRay(e.camera, x, y, e.opts.Width, e.opts.Height)
}

// Hover updates the highlighted bone under the cursor at pixel (x, y).
// The highlight is frozen while dragging.
func (e *Editor) Hover(x, y float64) {
	if e.player.Playing() || e.state.Dragging || !e.ready() {
		return
	}
	hit, ok := picking.Pick(e.scene.Skeleton, e.ray(x, y), e.opts.Radius)
	if !ok {
		e.state.HoveredBone = -1
		return
	}
	e.state.HoveredBone = hit.Bone
}

// HoverTick sets the highlighted timeline tick; -1 clears.
func (e *Editor) HoverTick(i int) {
	if e.player.Playing() || i < -1 || i >= e.store.Len() {
		return
	}
	e.state.HoveredTick = i
}

// DragStart grabs the bone under (x, y). It reports whether a bone was
// grabbed; only edit mode allows it.
func (e *Editor) DragStart(x, y float64) bool {
	if e.player.Playing() || !e.ready() {
		return false
	}
	ray := e.ray(x, y)
	hit, ok := picking.Pick(e.scene.Skeleton, ray, e.opts.Radius)
	if !ok || !e.manip.Begin(e.scene.Skeleton, hit, ray) {
		return false
	}
	e.state.Dragging = true
	e.state.HoveredBone = hit.Bone
	e.log.Debug().Int("bone", hit.Bone).Bool("translate", e.manip.Translate).Msg("drag start")
	return true
}

// Drag moves the grabbed bone toward the cursor at (x, y).
func (e *Editor) Drag(x, y float64) bool {
	if e.player.Playing() || !e.state.Dragging || !e.ready() {
		return false
	}
	return e.manip.Drag(e.scene.Skeleton, e.ray(x, y), e.camera.Forward())
}

// DragEnd releases the grabbed bone.
func (e *Editor) DragEnd() {
	if e.state.Dragging {
		e.log.Debug().Int("bone", e.manip.Bone()).Msg("drag end")
	}
	e.manip.End()
	e.state.Dragging = false
}

// Roll twists the highlighted bone about its own axis.
func (e *Editor) Roll(rad float64) {
	if e.player.Playing() || !e.ready() || e.state.HoveredBone < 0 {
		return
	}
	picking.Roll(e.scene.Skeleton, e.state.HoveredBone, rad)
}

// SetTranslate switches drags between rotating and translating.
func (e *Editor) SetTranslate(on bool) {
	e.state.Translate = on
	e.manip.Translate = on
}
