package controller

import (
	"fmt"
	"time"

	"github.com/jsphweid/lightorchestra/constants"
	"github.com/jsphweid/lightorchestra/scale"
)

type Config struct {
	MinLight int
	MaxLight int
	MinFreq  int
	MaxFreq  int
	BPM      int
	Tick     time.Duration
	Scale    scale.Scale
}

func DefaultConfig() Config {
	return Config{
		MinLight: constants.MinLight,
		MaxLight: constants.MaxLight,
		MinFreq:  constants.MinFreq,
		MaxFreq:  constants.MaxFreq,
		BPM:      constants.DefaultBPM,
		Tick:     constants.TickInterval,
		Scale:    scale.WhiteKeys,
	}
}

func (c Config) Validate() error {
	if c.MinLight >= c.MaxLight {
		return fmt.Errorf("light range [%d, %d] is empty", c.MinLight, c.MaxLight)
	}
	if c.MinFreq <= 0 || c.MinFreq >= c.MaxFreq {
		return fmt.Errorf("frequency range [%d, %d] is invalid", c.MinFreq, c.MaxFreq)
	}
	if c.BPM <= 0 {
		return fmt.Errorf("invalid tempo: %d bpm", c.BPM)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("invalid tick interval: %v", c.Tick)
	}
	if len(c.Scale) == 0 {
		return fmt.Errorf("scale is empty")
	}
	for i := 1; i < len(c.Scale); i++ {
		if c.Scale[i] <= c.Scale[i-1] {
			return fmt.Errorf("scale is not strictly increasing at index %d", i)
		}
	}
	return nil
}
