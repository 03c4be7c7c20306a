package device

import (
	"fmt"

	lomidi "github.com/jsphweid/lightorchestra/midi"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

// MIDIOut plays tones as notes on a MIDI output port. A registered driver
// (e.g. rtmididrv) is required.
type MIDIOut struct {
	out  drivers.Out
	send func(midi.Message) error
	log  *zap.Logger

	channel  uint8
	key      uint8
	sounding bool
}

func OpenMIDIOut(name string, channel uint8, log *zap.Logger) (*MIDIOut, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("can't find MIDI out port %q: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("can't open MIDI out port %q: %w", name, err)
	}
	log.Info("MIDI out opened", zap.String("port", out.String()))
	return &MIDIOut{out: out, send: send, log: log, channel: channel}, nil
}

func (m *MIDIOut) write(msg midi.Message) {
	if err := m.send(msg); err != nil {
		m.log.Warn("MIDI send failed", zap.Error(err))
	}
}

func (m *MIDIOut) SetFrequency(hz int) {
	key := lomidi.HzToKey(hz)
	if m.sounding && key == m.key {
		return
	}
	if m.sounding {
		m.write(midi.NoteOff(m.channel, m.key))
	}
	m.write(midi.NoteOn(m.channel, key, 100))
	m.key, m.sounding = key, true
}

func (m *MIDIOut) SetDutyOff() {
	if m.sounding {
		m.write(midi.NoteOff(m.channel, m.key))
		m.sounding = false
	}
}

func (m *MIDIOut) Close() error {
	m.SetDutyOff()
	return m.out.Close()
}
