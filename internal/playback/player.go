package playback

import "fmt"

// Mode is the editor's interaction mode.
type Mode int

const (
	// Edit allows posing, picking and timeline edits.
	Edit Mode = iota
	// Playback advances time and drives the pose from keyframes.
	Playback
)

func (m Mode) String() string {
	switch m {
	case Edit:
		return "edit"
	case Playback:
		return "playback"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Recorder captures the rendered output while playing.
type Recorder interface {
	Start() error
	Stop() error
	Recording() bool
}

// Player tracks playback mode, the current time in keyframe units and the
// scrubber position in [0,1].
type Player struct {
	Mode     Mode
	Time     float64
	Scrubber float64

	rec Recorder
}

// NewPlayer returns a player in edit mode with the scrubber at the end.
// rec may be nil.
func NewPlayer(rec Recorder) *Player {
	return &Player{Mode: Edit, Scrubber: 1, rec: rec}
}

// Playing reports whether time is advancing.
func (p *Player) Playing() bool { return p.Mode == Playback }

// Toggle starts playback from the scrubber (or from 0 when the scrubber is
// at the end) or returns to edit mode. Playback needs at least two
// keyframes. With record set the recorder is started if idle. It reports
// whether playback started.
func (p *Player) Toggle(count int, record bool) (bool, error) {
	if p.Mode == Playback {
		p.Mode = Edit
		return false, p.stopRecorder()
	}
	if count < 2 {
		return false, nil
	}

	p.Mode = Playback
	if p.Scrubber >= 1 {
		p.Time = 0
	} else {
		p.Time = p.Scrubber * float64(count-1)
	}
	if record && p.rec != nil && !p.rec.Recording() {
		if err := p.rec.Start(); err != nil {
			return true, fmt.Errorf("playback: start recorder: %w", err)
		}
	}
	return true, nil
}

// Advance moves time forward by dt while playing. Reaching maxTime rewinds
// to 0, parks the scrubber at the end, returns to edit mode and stops the
// recorder. It reports whether playback ended.
func (p *Player) Advance(dt, maxTime float64) (bool, error) {
	if p.Mode != Playback {
		return false, nil
	}
	p.Time += dt
	if maxTime > 0 {
		p.Scrubber = p.Time / maxTime
	}
	if p.Time < maxTime {
		return false, nil
	}

	p.Time = 0
	p.Scrubber = 1
	p.Mode = Edit
	return true, p.stopRecorder()
}

// Reset returns to edit mode at the end of the timeline.
func (p *Player) Reset() {
	p.Mode = Edit
	p.Time = 0
	p.Scrubber = 1
}

func (p *Player) stopRecorder() error {
	if p.rec == nil || !p.rec.Recording() {
		return nil
	}
	if err := p.rec.Stop(); err != nil {
		return fmt.Errorf("playback: stop recorder: %w", err)
	}
	return nil
}
