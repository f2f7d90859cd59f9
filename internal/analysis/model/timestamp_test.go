package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampUnmarshal(t *testing.T) {
	t.Run("Keeps millisecond-scale numeric values unchanged", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`1700000000000`), &ts)
		assert.Nil(t, err)
		assert.Equal(t, 1700000000000.0, ts.Ms)
	})

	t.Run("Divides microsecond-scale numeric values by 1000", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`1700000000000000`), &ts)
		assert.Nil(t, err)
		assert.Equal(t, 1700000000000.0, ts.Ms)
	})

	t.Run("Treats values on the 2100 boundary as milliseconds", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`4102444800000`), &ts)
		assert.Nil(t, err)
		assert.Equal(t, 4102444800000.0, ts.Ms)
	})

	t.Run("Parses ISO-8601 strings to milliseconds", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`"2023-11-14T22:13:20Z"`), &ts)
		assert.Nil(t, err)
		assert.Equal(t, 1700000000000.0, ts.Ms)
	})

	t.Run("Parses fractional seconds", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`"2023-11-14T22:13:20.500Z"`), &ts)
		assert.Nil(t, err)
		assert.Equal(t, 1700000000500.0, ts.Ms)
	})

	t.Run("Rejects non-numeric non-string values", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`{"nested": true}`), &ts)
		assert.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrMalformedTimestamp))
	})

	t.Run("Rejects unparseable strings", func(t *testing.T) {
		var ts Timestamp
		err := json.Unmarshal([]byte(`"not a timestamp"`), &ts)
		assert.NotNil(t, err)
		assert.True(t, errors.Is(err, ErrMalformedTimestamp))
	})
}

func TestSpanDuration(t *testing.T) {
	t.Run("Duration is end minus start", func(t *testing.T) {
		span := Span{
			StartTime: NewTimestamp(100),
			EndTime:   NewTimestamp(250),
		}
		assert.Equal(t, 150.0, span.DurationMs())
	})

	t.Run("Negative durations are used as given", func(t *testing.T) {
		span := Span{
			StartTime: NewTimestamp(250),
			EndTime:   NewTimestamp(100),
		}
		assert.Equal(t, -150.0, span.DurationMs())
	})
}
