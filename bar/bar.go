package bar

import (
	"fmt"
	"time"
)

const BeatsPerBar = 4

// Clock tracks the position inside a repeating four-beat bar and keeps the
// light readings taken at the last two bar boundaries.
type Clock struct {
	barDuration int64

	started  bool
	lastRel  int64
	lastPos  int64
	previous int
	current  int
	beat     int
}

// NewClock validates bpm and returns a clock for it.
func NewClock(bpm int) (*Clock, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("invalid tempo: %d bpm (must be positive)", bpm)
	}
	beat := int64(time.Minute/time.Millisecond) / int64(bpm)
	if beat == 0 {
		return nil, fmt.Errorf("invalid tempo: %d bpm is too fast", bpm)
	}
	return &Clock{barDuration: beat * BeatsPerBar}, nil
}

// BarDuration is the length of one bar in milliseconds.
func (c *Clock) BarDuration() int64 {
	return c.barDuration
}

// Observe advances the clock to rel milliseconds since start and reports
// whether a new bar began. The first observation always opens a bar and
// seeds both boundary readings with light. A bar only wraps once time has
// moved on, so repeated observations at the same rel never open one.
func (c *Clock) Observe(rel int64, light int) (newBar bool) {
	pos := rel % c.barDuration
	if pos < 0 {
		pos += c.barDuration
	}

	switch {
	case !c.started:
		c.started = true
		c.previous, c.current = light, light
		newBar = true
	case rel > c.lastRel && pos <= c.lastPos:
		c.previous, c.current = c.current, light
		newBar = true
	}

	c.lastRel, c.lastPos = rel, pos
	c.beat = int(pos / (c.barDuration / BeatsPerBar))
	if c.beat >= BeatsPerBar {
		c.beat = BeatsPerBar - 1
	}
	return newBar
}

// Beat is the zero-based beat of the last observation, at most 3.
func (c *Clock) Beat() int {
	return c.beat
}

// Lights returns the readings from the previous and the current bar boundary.
func (c *Clock) Lights() (previous, current int) {
	return c.previous, c.current
}
