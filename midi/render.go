package midi

import (
	"fmt"
	"io"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	resolution = smf.MetricTicks(960)
	velocity   = 100
)

// Renderer is a tone device that writes every note change into a single
// track Standard MIDI File. now reports the render position.
type Renderer struct {
	now   func() time.Duration
	bpm   int
	track smf.Track

	lastTick uint32
	key      uint8
	sounding bool
	notes    int
}

func NewRenderer(bpm int, now func() time.Duration) *Renderer {
	r := &Renderer{now: now, bpm: bpm}
	r.track.Add(0, smf.MetaTempo(float64(bpm)))
	return r
}

func (r *Renderer) ticks() uint32 {
	ms := int64(r.now() / time.Millisecond)
	return uint32(ms * int64(resolution.Resolution()) * int64(r.bpm) / 60000)
}

func (r *Renderer) add(msg gomidi.Message) {
	t := r.ticks()
	var delta uint32
	if t > r.lastTick {
		delta = t - r.lastTick
		r.lastTick = t
	}
	r.track.Add(delta, msg)
}

func (r *Renderer) SetFrequency(hz int) {
	key := HzToKey(hz)
	if r.sounding && key == r.key {
		return
	}
	if r.sounding {
		r.add(gomidi.NoteOff(0, r.key))
	}
	r.add(gomidi.NoteOn(0, key, velocity))
	r.key, r.sounding = key, true
	r.notes++
}

func (r *Renderer) SetDutyOff() {
	if !r.sounding {
		return
	}
	r.add(gomidi.NoteOff(0, r.key))
	r.sounding = false
}

// Notes counts the note-on events written so far.
func (r *Renderer) Notes() int {
	return r.notes
}

// WriteTo closes the track and encodes the file. Call it once.
func (r *Renderer) WriteTo(w io.Writer) (int64, error) {
	r.SetDutyOff()
	r.track.Close(0)

	s := smf.New()
	s.TimeFormat = resolution
	if err := s.Add(r.track); err != nil {
		return 0, fmt.Errorf("could not add track: %w", err)
	}
	return s.WriteTo(w)
}

func (r *Renderer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.WriteTo(f)
	return err
}
