package model

type Mode int

const (
	Live Mode = iota
	Recording
	Replaying
)

func (m Mode) String() string {
	switch m {
	case Recording:
		return "recording"
	case Replaying:
		return "replaying"
	default:
		return "live"
	}
}
