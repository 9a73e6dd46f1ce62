package timeline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTickExists is returned when inserting at a time that already has a tick.
	ErrTickExists = errors.New("timeline: tick already exists")
	// ErrOutOfRange is returned when a time falls outside its allowed span.
	ErrOutOfRange = errors.New("timeline: time out of range")
	// ErrLocked is returned when retiming a locked tick.
	ErrLocked = errors.New("timeline: tick is locked")
	// ErrCapacity is returned when the keyframe limit is reached.
	ErrCapacity = errors.New("timeline: keyframe limit reached")
	// ErrIndex is returned for indices outside the timeline.
	ErrIndex = errors.New("timeline: index out of range")
)

// Ticks is the normalized timeline: strictly ascending times in [0,1] with a
// parallel lock flag per tick. Locked ticks are anchors that never move when
// another tick is retimed.
type Ticks struct {
	times  []float64
	locked []bool
}

// Len returns the number of ticks.
func (t *Ticks) Len() int { return len(t.times) }

// Times returns a copy of the tick values.
func (t *Ticks) Times() []float64 { return append([]float64(nil), t.times...) }

// Locked returns a copy of the lock flags.
func (t *Ticks) Locked() []bool { return append([]bool(nil), t.locked...) }

// At returns tick i.
func (t *Ticks) At(i int) float64 { return t.times[i] }

// IsLocked reports whether tick i is an anchor.
func (t *Ticks) IsLocked(i int) bool { return t.locked[i] }

// Reset drops every tick.
func (t *Ticks) Reset() {
	t.times = t.times[:0]
	t.locked = t.locked[:0]
}

// Append adds a locked tick at 1.0 and unlocks the previous end, so a
// fresh timeline carries a single end anchor. The lone first tick moves to
// 0. Otherwise ticks after the last anchor before the end (or after the
// first tick when there is none) are compressed toward it so the segments
// after it stay evenly proportioned with the new end.
func (t *Ticks) Append() {
	n := len(t.times)
	switch n {
	case 0:
		t.times = append(t.times, 1)
		t.locked = append(t.locked, true)
		return
	case 1:
		t.times[0] = 0
		t.locked[0] = false
		t.times = append(t.times, 1)
		t.locked = append(t.locked, true)
		return
	}

	last := n - 1
	anchor := 0
	for i := last - 1; i >= 0; i-- {
		if t.locked[i] {
			anchor = i
			break
		}
	}
	p := t.times[anchor]

	// With the end at 1, (1 - (1-p)/k - p) / (1-p) reduces to 1 - 1/k.
	k := float64(n - anchor)
	scale := 1 - 1/k
	for i := anchor + 1; i < n; i++ {
		t.times[i] = p + (t.times[i]-p)*scale
	}

	t.locked[last] = false
	t.times = append(t.times, 1)
	t.locked = append(t.locked, true)
}

// Insert places an unlocked tick at time x and returns its index.
func (t *Ticks) Insert(x float64) (int, error) {
	if x < 0 || x > 1 {
		return -1, fmt.Errorf("%w: %g", ErrOutOfRange, x)
	}
	i := sort.SearchFloat64s(t.times, x)
	if i < len(t.times) && t.times[i] == x {
		return -1, fmt.Errorf("%w: %g", ErrTickExists, x)
	}

	t.times = append(t.times, 0)
	copy(t.times[i+1:], t.times[i:])
	t.times[i] = x

	t.locked = append(t.locked, false)
	copy(t.locked[i+1:], t.locked[i:])
	t.locked[i] = false
	return i, nil
}

// Bounds returns the anchors that bound tick i: the nearest locked tick at or
// before i (0 when none) and the nearest locked tick after i (1 when none).
func (t *Ticks) Bounds(i int) (lo, hi float64) {
	lo, hi = 0, 1
	for j := i; j >= 0; j-- {
		if t.locked[j] {
			lo = t.times[j]
			break
		}
	}
	for j := i + 1; j < len(t.times); j++ {
		if t.locked[j] {
			hi = t.times[j]
			break
		}
	}
	return lo, hi
}

// SetTime moves tick i to x. Unlocked ticks between the bounding anchors
// are rescaled on both sides so their order is kept; anchors never move.
// The first and last ticks are pinned to the ends of the timeline.
func (t *Ticks) SetTime(i int, x float64) error {
	if i < 0 || i >= len(t.times) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	if t.locked[i] || i == 0 || i == len(t.times)-1 {
		return fmt.Errorf("%w: %d", ErrLocked, i)
	}

	p, n := t.Bounds(i)
	if x <= p || x >= n {
		return fmt.Errorf("%w: %g not in (%g, %g)", ErrOutOfRange, x, p, n)
	}

	old := t.times[i]
	for j := i - 1; j >= 0 && !t.locked[j]; j-- {
		t.times[j] = p + (t.times[j]-p)*(x-p)/(old-p)
	}
	for j := i + 1; j < len(t.times) && !t.locked[j]; j++ {
		t.times[j] = n - (n-t.times[j])*(n-x)/(n-old)
	}
	t.times[i] = x
	return nil
}

// Delete removes tick i and renormalizes the rest to span [0,1]: first
// divide by the last tick, then, if the first tick is not zero, shift it to
// zero and divide again. A single survivor sits at 1.
func (t *Ticks) Delete(i int) error {
	if i < 0 || i >= len(t.times) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	t.times = append(t.times[:i], t.times[i+1:]...)
	t.locked = append(t.locked[:i], t.locked[i+1:]...)

	switch len(t.times) {
	case 0:
		return nil
	case 1:
		t.times[0] = 1
		return nil
	}

	last := len(t.times) - 1
	end := t.times[last]
	for j := range t.times {
		t.times[j] /= end
	}
	if first := t.times[0]; first != 0 {
		span := t.times[last] - first
		for j := range t.times {
			t.times[j] = (t.times[j] - first) / span
		}
	}
	return nil
}

// ToggleLock flips the anchor flag of tick i.
func (t *Ticks) ToggleLock(i int) error {
	if i < 0 || i >= len(t.times) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	t.locked[i] = !t.locked[i]
	return nil
}

// Interval locates x in the ticks. It returns the index of the interval
// [times[i], times[i+1]] and the local factor u in [0,1]. Before the first
// tick it returns (0, 0); at or after the last it returns (len-2, 1). A
// single tick yields (0, 0). ok is false on an empty timeline.
func (t *Ticks) Interval(x float64) (i int, u float64, ok bool) {
	n := len(t.times)
	switch {
	case n == 0:
		return 0, 0, false
	case n == 1 || x <= t.times[0]:
		return 0, 0, true
	case x >= t.times[n-1]:
		return n - 2, 1, true
	}

	// times[i] <= x < times[i+1]
	i = sort.Search(n, func(k int) bool { return t.times[k] > x }) - 1
	u = (x - t.times[i]) / (t.times[i+1] - t.times[i])
	return i, u, true
}

// Valid reports whether the ticks are strictly ascending within [0,1] and
// parallel to the lock flags.
func (t *Ticks) Valid() bool {
	if len(t.times) != len(t.locked) {
		return false
	}
	for i, x := range t.times {
		if x < 0 || x > 1 {
			return false
		}
		if i > 0 && x <= t.times[i-1] {
			return false
		}
	}
	return true
}
