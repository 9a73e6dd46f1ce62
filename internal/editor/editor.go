package editor

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/rs/zerolog"

	"skin-animator/internal/camera"
	"skin-animator/internal/picking"
	"skin-animator/internal/playback"
	"skin-animator/internal/rig"
	"skin-animator/internal/skeleton"
	"skin-animator/internal/timeline"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// Thumbnailer renders the scene's current pose to a small offscreen image.
type Thumbnailer interface {
	Thumbnail(scene *rig.Scene, cam *camera.Camera) *image.NRGBA
}

// NoSelection is shown when a keyframe command needs a selection.
const NoSelection = "no keyframe selected"

// State is the interaction state threaded through the editor commands.
type State struct {
	Selected    int // keyframe index or -1
	HoveredBone int // bone under the cursor or -1
	HoveredTick int // tick under the cursor or -1
	Dragging    bool
	Translate   bool
}

func idleState() State {
	return State{Selected: -1, HoveredBone: -1, HoveredTick: -1}
}

// Options configures an Editor. Nil collaborators are allowed.
type Options struct {
	Width        int
	Height       int
	Radius       float64
	MaxKeyframes int

	Logger      zerolog.Logger
	Notifier    Notifier
	Thumbnailer Thumbnailer
	Recorder    playback.Recorder
}

// Editor owns the posed scene, its timeline and the interaction state. All
// methods run on the frame goroutine except Install.
type Editor struct {
	opts Options
	log  zerolog.Logger

	pending atomic.Pointer[rig.Scene]

	scene  *rig.Scene
	store  *timeline.Store
	camera *camera.Camera
	player *playback.Player
	manip  picking.Manipulator
	state  State
}

// New returns an editor with no scene. Zero option values take defaults.
func New(opts Options) *Editor {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 800, 600
	}
	if opts.Radius <= 0 {
		opts.Radius = picking.DefaultRadius
	}
	if opts.MaxKeyframes <= 0 {
		opts.MaxKeyframes = timeline.MaxKeyframes
	}
	return &Editor{
		opts:   opts,
		log:    opts.Logger.With().Str("component", "editor").Logger(),
		store:  timeline.NewStore(opts.MaxKeyframes),
		camera: camera.New(float64(opts.Width) / float64(opts.Height)),
		player: playback.NewPlayer(opts.Recorder),
		state:  idleState(),
	}
}

// Install queues scene to replace the current one at the start of the next
// frame. It is safe to call from any goroutine.
func (e *Editor) Install(scene *rig.Scene) {
	e.pending.Store(scene)
}

// Frame runs one editor tick: a queued scene is swapped in, then playback
// advances and poses the skeleton.
func (e *Editor) Frame(dt float64) error {
	if scene := e.pending.Swap(nil); scene != nil {
		e.swap(scene)
	}
	if !e.player.Playing() || !e.ready() {
		return nil
	}

	ended, err := e.player.Advance(dt, e.store.MaxTime())
	if ended {
		// The scrubber is parked at the end: hold the last keyframe.
		e.log.Info().Msg("playback finished")
		e.scrubberFrame()
		return err
	}
	e.setFrame(e.player.Time)
	return err
}

func (e *Editor) swap(scene *rig.Scene) {
	e.scene = scene
	e.store.Reset()
	e.player.Reset()
	e.manip.End()
	translate := e.state.Translate
	e.state = idleState()
	e.state.Translate = translate
	e.camera = camera.New(e.camera.Aspect)
	e.log.Info().Str("scene", scene.Name).Int("bones", scene.Skeleton.Len()).Msg("scene installed")
}

func (e *Editor) ready() bool {
	return e.scene != nil && !e.scene.Skeleton.Empty()
}

// setFrame poses the skeleton at playback time t and moves the camera.
func (e *Editor) setFrame(t float64) {
	if snap, ok := playback.SetFrame(e.scene.Skeleton, e.store, t); ok {
		e.camera.Restore(snap)
	}
}

// scrubberFrame re-poses at the scrubber after a timeline edit.
func (e *Editor) scrubberFrame() {
	if e.ready() && e.store.Len() > 0 {
		e.setFrame(e.player.Scrubber * e.store.MaxTime())
	}
}

func (e *Editor) notify(msg string) {
	e.log.Debug().Str("notice", msg).Msg("notify")
	if e.opts.Notifier != nil {
		e.opts.Notifier.Notify(msg)
	}
}

// Scene returns the installed scene, or nil.
func (e *Editor) Scene() *rig.Scene { return e.scene }

// Skeleton returns the installed skeleton, or nil.
func (e *Editor) Skeleton() *skeleton.Skeleton {
	if e.scene == nil {
		return nil
	}
	return e.scene.Skeleton
}

// Store exposes the keyframes and ticks for panel and timeline drawing.
func (e *Editor) Store() *timeline.Store { return e.store }

// Camera returns the view camera.
func (e *Editor) Camera() *camera.Camera { return e.camera }

// Player returns playback mode and time.
func (e *Editor) Player() *playback.Player { return e.player }

// State returns a copy of the interaction state.
func (e *Editor) State() State { return e.state }

// ModeString is the status line text.
func (e *Editor) ModeString() string {
	if e.player.Playing() {
		return fmt.Sprintf("playback: %.2f / %.2f", e.player.Time, e.store.MaxTime())
	}
	return fmt.Sprintf("edit: %d keyframes", e.store.Len())
}
