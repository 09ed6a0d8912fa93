package util

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"logpretty/internal/model"
)

// maxEpochMillis is the largest distance from the epoch, in milliseconds,
// that log producers can represent as a date.
const maxEpochMillis = 8.64e15

func ParseTimeFlexible(timeStr string) (time.Time, error) {
	// Try parsing as RFC3339 (ISO 8601)
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, timeStr) // Try without nano
	if err == nil {
		return t.UTC(), nil
	}

	// Try parsing as epoch milliseconds
	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return EpochMillis(float64(ms))
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// EpochMillis converts a millisecond timestamp, truncating any fraction.
func EpochMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, fmt.Errorf("timestamp out of range: %v", ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// TimeFromValue interprets a record's time field: numbers are epoch
// milliseconds, strings go through ParseTimeFlexible.
func TimeFromValue(v model.Value) (time.Time, error) {
	switch v.Kind {
	case model.KindNumber:
		return EpochMillis(v.Num)
	case model.KindString:
		return ParseTimeFlexible(v.Str)
	default:
		return time.Time{}, fmt.Errorf("unsupported time value of kind %s", v.Kind)
	}
}
