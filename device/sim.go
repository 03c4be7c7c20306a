package device

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Sim is a light sensor that sweeps between dark and bright, for running
// without hardware.
type Sim struct {
	Now    func() time.Time
	Period time.Duration
	Low    uint16
	High   uint16

	start time.Time
}

func NewSim(period time.Duration) *Sim {
	return &Sim{Now: time.Now, Period: period, Low: 500, High: 40000}
}

func (s *Sim) ReadLight() (uint16, error) {
	now := s.Now()
	if s.start.IsZero() {
		s.start = now
	}
	phase := float64(now.Sub(s.start)) / float64(s.Period) * 2 * math.Pi
	mid := (float64(s.Low) + float64(s.High)) / 2
	amp := (float64(s.High) - float64(s.Low)) / 2
	return uint16(mid - amp*math.Cos(phase)), nil
}

// Logged is a tone device that only logs, for running without a buzzer.
type Logged struct {
	log  *zap.Logger
	last int
}

func NewLogged(log *zap.Logger) *Logged {
	return &Logged{log: log}
}

func (l *Logged) SetFrequency(hz int) {
	if hz != l.last {
		l.log.Info("tone", zap.Int("hz", hz))
		l.last = hz
	}
}

func (l *Logged) SetDutyOff() {
	if l.last != 0 {
		l.log.Info("silence")
		l.last = 0
	}
}
