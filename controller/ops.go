package controller

import (
	"github.com/jsphweid/lightorchestra/device"
	"github.com/jsphweid/lightorchestra/model"
)

type Op string

const (
	StartRecording Op = "start-recording"
	StopRecording  Op = "stop-recording"
	StartReplay    Op = "start-replay"
	StopReplay     Op = "stop-replay"
	SaveSession    Op = "save-session"
	LoadSession    Op = "load-session"
	GetStatus      Op = "status"
)

// Reply reports the outcome of an Op. Changed is false when the op had
// nothing to do; Err is set when it was rejected or storage failed.
type Reply struct {
	Changed bool
	Err     error
	Status  Status
}

type Status struct {
	Mode    model.Mode
	Light   uint16
	Norm    float64
	Hz      int
	Session string
	Samples int
	Cursor  int
}

type request struct {
	op    Op
	reply chan Reply
}

// voice remembers what the device is sounding so repeated notes are not
// resent.
type voice struct {
	tone device.ToneDevice
	hz   int
}

func (v *voice) SetFrequency(hz int) {
	if hz != v.hz {
		v.tone.SetFrequency(hz)
		v.hz = hz
	}
}

// SetDutyOff always reaches the device.
func (v *voice) SetDutyOff() {
	v.tone.SetDutyOff()
	v.hz = 0
}

func (v *voice) quiet() {
	if v.hz != 0 {
		v.SetDutyOff()
	}
}
