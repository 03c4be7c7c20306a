// Package device holds the peripherals the controller drives: something that
// sounds a tone and something that measures light.
package device

// ToneDevice sounds a square wave. Implementations handle their own I/O
// faults; the controller assumes both calls succeed.
type ToneDevice interface {
	SetFrequency(hz int) // 50% duty at hz
	SetDutyOff()         // silence
}

// LightSensor returns the current light intensity in [0, 65535].
type LightSensor interface {
	ReadLight() (uint16, error)
}
