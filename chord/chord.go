package chord

import (
	"fmt"

	"github.com/jsphweid/lightorchestra/scale"
)

// Voicing is four scale-step offsets from a root index, one per beat.
type Voicing [4]int

// Family names the branch a voicing came from. Used for logging.
type Family string

const (
	BrightFamily Family = "bright"
	DarkFamily   Family = "dark"
	SteadyFamily Family = "steady"
	RisingFamily Family = "rising"
)

var (
	brightLow  = Voicing{4, 2, 0, 7}
	brightMid  = Voicing{4, 0, 4, 7}
	brightHigh = Voicing{4, 7, 4, 2}
	darkHigh   = Voicing{0, -3, -5, -7}
	darkLow    = Voicing{0, 4, 2, 0}
	steady     = Voicing{0, 4, 7, 4}
	rising     = Voicing{0, 2, 4, 7}
)

// Select picks the voicing for a bar from the light at the last two bar
// boundaries. rootHz is the frequency of the quantized root.
func Select(rootHz, previous, current int) (Voicing, Family) {
	delta := current - previous
	switch {
	case delta >= 2*previous:
		switch {
		case delta < 3*previous:
			return brightLow, BrightFamily
		case delta < 4*previous:
			return brightMid, BrightFamily
		default:
			return brightHigh, BrightFamily
		}
	case delta < 0:
		if rootHz >= scale.MiddleC {
			return darkHigh, DarkFamily
		}
		return darkLow, DarkFamily
	case delta*4 < previous:
		return steady, SteadyFamily
	default:
		return rising, RisingFamily
	}
}

// Notes resolves the voicing against s, clamping every index into range.
func (v Voicing) Notes(s scale.Scale, rootIndex int) [4]int {
	var res [4]int
	for i, off := range v {
		res[i] = s.At(rootIndex + off)
	}
	return res
}

func (v Voicing) String() string {
	return fmt.Sprintf("%+d/%+d/%+d/%+d", v[0], v[1], v[2], v[3])
}
