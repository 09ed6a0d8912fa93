package formatter

import (
	"fmt"
	"math"
	"strconv"

	"logpretty/internal/model"
	"logpretty/internal/style"
)

type level struct {
	label string
	style style.Style
}

// pino/bunyan numeric severities
var levels = map[int]level{
	60: {"FATAL", style.LevelFatal},
	50: {"ERROR", style.LevelError},
	40: {"WARN", style.LevelWarn},
	30: {"INFO", style.LevelInfo},
	20: {"DEBUG", style.LevelDebug},
	10: {"TRACE", style.LevelTrace},
}

var defaultLevel = level{"TRACE", style.LevelTrace}

// levelWidth is the width of the longest label; shorter ones are right-aligned.
const levelWidth = 5

// maxExactInt bounds the float64 codes converted to int.
const maxExactInt = 1 << 53

func (l level) padded() string {
	return fmt.Sprintf("%*s", levelWidth, l.label)
}

// levelOf resolves a record's level field. Numeric codes and their exact
// decimal string form are accepted; everything else is TRACE.
func levelOf(v model.Value, ok bool) level {
	if !ok {
		return defaultLevel
	}

	var code int
	switch v.Kind {
	case model.KindNumber:
		if math.Abs(v.Num) > maxExactInt || v.Num != math.Trunc(v.Num) {
			return defaultLevel
		}
		code = int(v.Num)
	case model.KindString:
		n, err := strconv.Atoi(v.Str)
		if err != nil || strconv.Itoa(n) != v.Str {
			return defaultLevel
		}
		code = n
	default:
		return defaultLevel
	}

	if l, found := levels[code]; found {
		return l
	}
	return defaultLevel
}
