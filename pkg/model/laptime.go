package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LapTime is a qualifying lap duration in seconds with millisecond
// precision. The zero value means "no time set".
type LapTime struct {
	seconds decimal.Decimal
	valid   bool
}

func LapTimeFromSeconds(seconds decimal.Decimal) LapTime {
	return LapTime{seconds: seconds, valid: true}
}

// ParseLapTime accepts the wire formats "m:ss.mmm" and plain seconds
// ("86.572"). An empty string yields an unset LapTime without error.
func ParseLapTime(arg string) (LapTime, error) {
	s := strings.TrimSpace(arg)
	if s == "" {
		return LapTime{}, nil
	}
	var minutes int64
	secPart := s
	if idx := strings.Index(s, ":"); idx >= 0 {
		if _, err := fmt.Sscanf(s[:idx], "%d", &minutes); err != nil {
			return LapTime{}, fmt.Errorf("invalid lap time %q: %w", arg, err)
		}
		secPart = s[idx+1:]
	}
	secs, err := decimal.NewFromString(secPart)
	if err != nil {
		return LapTime{}, fmt.Errorf("invalid lap time %q: %w", arg, err)
	}
	total := secs.Add(decimal.NewFromInt(minutes * 60))
	return LapTime{seconds: total, valid: true}, nil
}

func (t LapTime) Valid() bool { return t.valid }

func (t LapTime) Seconds() decimal.Decimal { return t.seconds }

// String renders "m:ss.mmm" for times of a minute or longer, "ss.mmm"
// otherwise. Unset times render as the empty string.
func (t LapTime) String() string {
	if !t.valid {
		return ""
	}
	totalMillis := t.seconds.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	minutes := totalMillis / 60000
	rest := totalMillis % 60000
	if minutes == 0 {
		return fmt.Sprintf("%d.%03d", rest/1000, rest%1000)
	}
	return fmt.Sprintf("%d:%02d.%03d", minutes, rest/1000, rest%1000)
}
