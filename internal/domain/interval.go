package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is the bar width used by the aggregator.
type Interval time.Duration

// Unit order used by String; ParseInterval accepts units in any order.
var intervalUnits = []struct {
	suffix byte
	dur    time.Duration
}{
	{'d', 24 * time.Hour},
	{'h', time.Hour},
	{'m', time.Minute},
	{'s', time.Second},
}

// ParseInterval parses strings like "4s", "15m", "2h", "1d" or combinations
// such as "1h30m". Units are s, m, h, d, each at most once, combined
// additively; the total must be positive.
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidInterval)
	}

	seen := make(map[byte]bool, 4)
	var total time.Duration
	for i := 0; i < len(s); {
		digits := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if digits == i {
			return 0, fmt.Errorf("%w: expected digit at %q", ErrInvalidInterval, s[i:])
		}
		if i == len(s) {
			return 0, fmt.Errorf("%w: missing unit after %q", ErrInvalidInterval, s[digits:])
		}
		n, err := strconv.ParseInt(s[digits:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, s[digits:i])
		}

		unit := s[i]
		i++
		var dur time.Duration
		for _, u := range intervalUnits {
			if u.suffix == unit {
				dur = u.dur
				break
			}
		}
		if dur == 0 {
			return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidInterval, string(unit))
		}
		if seen[unit] {
			return 0, fmt.Errorf("%w: repeated unit %q", ErrInvalidInterval, string(unit))
		}
		seen[unit] = true

		total += time.Duration(n) * dur
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: zero duration", ErrInvalidInterval)
	}
	return Interval(total), nil
}

func (iv Interval) Duration() time.Duration {
	return time.Duration(iv)
}

// String renders the interval largest unit first, omitting zero components,
// so ParseInterval(iv.String()) == iv for any whole-second interval.
func (iv Interval) String() string {
	d := time.Duration(iv)
	if d <= 0 {
		return "0s"
	}

	var b strings.Builder
	for _, u := range intervalUnits {
		if n := d / u.dur; n > 0 {
			fmt.Fprintf(&b, "%d%c", n, u.suffix)
			d -= n * u.dur
		}
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
