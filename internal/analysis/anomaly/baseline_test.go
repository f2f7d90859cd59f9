package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseline(t *testing.T) {
	t.Run("Z-score is zero before warm-up", func(t *testing.T) {
		baseline := NewBaseline()
		for i := 0; i < warmUpSamples-1; i++ {
			baseline.Update(100)
		}
		assert.False(t, baseline.WarmedUp())
		assert.Equal(t, 0.0, baseline.ZScore(10000))
	})

	t.Run("Warmed-up baseline scores outliers far from the mean", func(t *testing.T) {
		baseline := NewBaseline()
		for i := 0; i < 100; i++ {
			baseline.Update(100 + float64(i%21) - 10)
		}
		assert.True(t, baseline.WarmedUp())
		assert.Greater(t, baseline.ZScore(1000), 3.0)
		assert.InDelta(t, 100, baseline.Mean(), 5)
	})

	t.Run("Adapts to a new level over time", func(t *testing.T) {
		baseline := NewBaseline()
		for i := 0; i < 50; i++ {
			baseline.Update(100)
		}
		for i := 0; i < 500; i++ {
			baseline.Update(200)
		}
		assert.InDelta(t, 200, baseline.Mean(), 20)
	})
}

func TestCUSUM(t *testing.T) {
	t.Run("Stable series around the target does not alarm", func(t *testing.T) {
		cusum := NewCUSUM(100, 10)
		for i := 0; i < 50; i++ {
			result := cusum.Update(100 + float64(i%5) - 2)
			assert.False(t, result.HasAlarm())
		}
	})

	t.Run("Detects a sustained upward mean shift", func(t *testing.T) {
		cusum := NewCUSUM(100, 10)
		for i := 0; i < 20; i++ {
			cusum.Update(100)
		}
		alarmed := false
		for i := 0; i < 20; i++ {
			if cusum.Update(120).UpwardAlarm {
				alarmed = true
				break
			}
		}
		assert.True(t, alarmed)
	})

	t.Run("Detects a sustained downward mean shift", func(t *testing.T) {
		cusum := NewCUSUM(100, 10)
		alarmed := false
		for i := 0; i < 20; i++ {
			if cusum.Update(80).DownwardAlarm {
				alarmed = true
				break
			}
		}
		assert.True(t, alarmed)
	})

	t.Run("Reset clears the accumulated sums", func(t *testing.T) {
		cusum := NewCUSUM(100, 10)
		for i := 0; i < 20; i++ {
			cusum.Update(120)
		}
		cusum.Reset()
		result := cusum.Update(100)
		assert.False(t, result.HasAlarm())
	})
}
