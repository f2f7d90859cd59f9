package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// microsecondBoundaryMs is the millisecond epoch value of 2100-01-01T00:00:00Z.
// Numeric timestamps above it cannot plausibly be milliseconds and are
// treated as microseconds instead.
const microsecondBoundaryMs = 4102444800000

var ErrMalformedTimestamp = errors.New("timestamp is neither a numeric epoch nor an ISO-8601 string")

// Timestamp is a span timestamp normalized to milliseconds since the Unix
// epoch. It accepts either a numeric epoch value (millisecond or microsecond
// scale, disambiguated by microsecondBoundaryMs) or an ISO-8601 string.
type Timestamp struct {
	Ms float64
}

func NewTimestamp(ms float64) Timestamp {
	return Timestamp{Ms: ms}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal timestamp: %w", err)
	}
	switch value := raw.(type) {
	case float64:
		t.Ms = NormalizeEpoch(value)
		return nil
	case string:
		parsed, err := parseISOTimestamp(value)
		if err != nil {
			return fmt.Errorf("failed to parse timestamp string %q: %w", value, ErrMalformedTimestamp)
		}
		t.Ms = parsed
		return nil
	default:
		return fmt.Errorf("unsupported timestamp type %T: %w", raw, ErrMalformedTimestamp)
	}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Ms)
}

// NormalizeEpoch converts an ambiguous numeric epoch value to milliseconds.
func NormalizeEpoch(value float64) float64 {
	if value > microsecondBoundaryMs {
		return value / 1000
	}
	return value
}

func parseISOTimestamp(value string) (float64, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05.999999999", value)
		if err != nil {
			return 0, err
		}
		parsed = parsed.UTC()
	}
	return float64(parsed.UnixNano()) / float64(time.Millisecond), nil
}
