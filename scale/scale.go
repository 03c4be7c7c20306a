package scale

import (
	"github.com/jsphweid/lightorchestra/util"
)

// Scale is an ordered, strictly increasing table of reference frequencies.
type Scale []int

// WhiteKeys holds the white keys from C3 to C7 in whole hertz.
var WhiteKeys = Scale{
	131, 147, 165, 175, 196, 220, 247,
	262, 294, 330, 349, 392, 440, 494,
	523, 587, 659, 698, 784, 880, 988,
	1047, 1175, 1319, 1397, 1568, 1760, 1976,
	2093,
}

// MiddleC is the pivot the darkening voicings switch on.
const MiddleC = 262

// Map linearly rescales x from [inMin, inMax] to [outMin, outMax] using
// floor division. inMin must differ from inMax.
func Map(x, inMin, inMax, outMin, outMax int) int {
	return util.FloorDiv((x-inMin)*(outMax-outMin), inMax-inMin) + outMin
}

// Nearest returns the index of the entry closest to hz. Ties go to the
// lower index; frequencies outside the table snap to its ends.
func (s Scale) Nearest(hz int) int {
	best := 0
	bestDiff := abs(s[0] - hz)
	for i := 1; i < len(s); i++ {
		if d := abs(s[i] - hz); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// Index clamps i into the table's valid range.
func (s Scale) Index(i int) int {
	return util.Clamp(i, 0, len(s)-1)
}

// At is the frequency at i, with i clamped into range.
func (s Scale) At(i int) int {
	return s[s.Index(i)]
}

// Nearest quantizes hz onto WhiteKeys.
func Nearest(hz int) int {
	return WhiteKeys.Nearest(hz)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
