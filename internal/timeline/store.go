package timeline

import "fmt"

// MaxKeyframes is the soft cap on captured keyframes.
const MaxKeyframes = 64

// Store holds the keyframe list and its ticks. Both always have the same
// length.
type Store struct {
	frames []Keyframe
	ticks  Ticks
	limit  int
}

// NewStore returns an empty store. limit <= 0 means MaxKeyframes.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = MaxKeyframes
	}
	return &Store{limit: limit}
}

// Len returns the number of keyframes.
func (s *Store) Len() int { return len(s.frames) }

// Limit returns the keyframe cap.
func (s *Store) Limit() int { return s.limit }

// Keyframe returns keyframe i.
func (s *Store) Keyframe(i int) (Keyframe, bool) {
	if i < 0 || i >= len(s.frames) {
		return Keyframe{}, false
	}
	return s.frames[i], true
}

// Keyframes returns a copy of the keyframe list in panel order.
func (s *Store) Keyframes() []Keyframe {
	return append([]Keyframe(nil), s.frames...)
}

// Ticks exposes the timeline for readers. Mutate through the Store only.
func (s *Store) Ticks() *Ticks { return &s.ticks }

// Times returns a copy of the tick values.
func (s *Store) Times() []float64 { return s.ticks.Times() }

// Locked returns a copy of the lock flags.
func (s *Store) Locked() []bool { return s.ticks.Locked() }

// MaxTime is the playback length in keyframe units.
func (s *Store) MaxTime() float64 {
	if len(s.frames) == 0 {
		return 0
	}
	return float64(len(s.frames) - 1)
}

// Capture adds kf at the scrubber position. With the scrubber at the end or
// fewer than two keyframes it appends; otherwise it inserts at the scrubber
// time. It returns the index of the new keyframe.
func (s *Store) Capture(kf Keyframe, scrubber float64) (int, error) {
	if len(s.frames) >= s.limit {
		return -1, fmt.Errorf("%w: %d", ErrCapacity, s.limit)
	}

	if scrubber >= 1 || len(s.frames) < 2 {
		s.ticks.Append()
		s.frames = append(s.frames, kf)
		return len(s.frames) - 1, nil
	}

	i, err := s.ticks.Insert(scrubber)
	if err != nil {
		return -1, err
	}
	s.frames = append(s.frames, Keyframe{})
	copy(s.frames[i+1:], s.frames[i:])
	s.frames[i] = kf
	return i, nil
}

// Update replaces keyframe i wholesale. The tick is unchanged.
func (s *Store) Update(i int, kf Keyframe) error {
	if i < 0 || i >= len(s.frames) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.frames[i] = kf
	return nil
}

// Delete removes keyframe i together with its tick.
func (s *Store) Delete(i int) error {
	if err := s.ticks.Delete(i); err != nil {
		return err
	}
	s.frames = append(s.frames[:i], s.frames[i+1:]...)
	return nil
}

// ToggleLock flips the anchor flag of tick i.
func (s *Store) ToggleLock(i int) error {
	return s.ticks.ToggleLock(i)
}

// SetTime retimes tick i.
func (s *Store) SetTime(i int, x float64) error {
	return s.ticks.SetTime(i, x)
}

// Move reorders the keyframe list. Ticks stay where they are, so the moved
// keyframe takes over the tick at its new index.
func (s *Store) Move(from, to int) error {
	n := len(s.frames)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: %d -> %d", ErrIndex, from, to)
	}
	if from == to {
		return nil
	}
	kf := s.frames[from]
	if from < to {
		copy(s.frames[from:to], s.frames[from+1:to+1])
	} else {
		copy(s.frames[to+1:from+1], s.frames[to:from])
	}
	s.frames[to] = kf
	return nil
}

// Reset drops every keyframe and tick.
func (s *Store) Reset() {
	s.frames = nil
	s.ticks.Reset()
}
