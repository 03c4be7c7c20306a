package midi

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoteCount = errors.New("rendered note count mismatch")

// HzToKey returns the MIDI key closest to hz in equal temperament.
func HzToKey(hz int) uint8 {
	if hz <= 0 {
		return 0
	}
	key := math.Round(69 + 12*math.Log2(float64(hz)/440))
	return uint8(math.Max(0, math.Min(127, key)))
}

// ReadFile parses a Standard MIDI File. smf panics on some malformed input;
// those come back as errors.
func ReadFile(path string) (s *smf.SMF, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open midi file: %w", err)
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("malformed midi file %v: %v", path, r)
		}
	}()

	s, err = smf.ReadFrom(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not parse midi file: %w", err)
	}
	return s, nil
}

// NoteOns counts note-on events across every track.
func NoteOns(s *smf.SMF) int {
	var n int
	for _, track := range s.Tracks {
		for _, ev := range track {
			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) {
				n++
			}
		}
	}
	return n
}

// Verify reads path back and checks that it holds exactly want notes.
func Verify(path string, want int) error {
	s, err := ReadFile(path)
	if err != nil {
		return err
	}
	if got := NoteOns(s); got != want {
		return fmt.Errorf("%w: %v has %d notes, wrote %d", ErrNoteCount, path, got, want)
	}
	return nil
}
