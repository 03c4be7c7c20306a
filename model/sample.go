package model

import (
	"encoding/json"
	"fmt"
)

// Sample is one light reading. Timestamp is milliseconds on a monotonic clock.
type Sample struct {
	Timestamp int64
	Value     uint16
}

// Samples are persisted as [timestamp_ms, light_value] pairs.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{s.Timestamp, int64(s.Value)})
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("sample must be a [timestamp, value] pair: %w", err)
	}
	if pair[1] < 0 || pair[1] > 65535 {
		return fmt.Errorf("light value %d out of range", pair[1])
	}
	s.Timestamp = pair[0]
	s.Value = uint16(pair[1])
	return nil
}

type Session = []Sample

// Sorted reports whether timestamps are non-decreasing.
func Sorted(s Session) bool {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp < s[i-1].Timestamp {
			return false
		}
	}
	return true
}
