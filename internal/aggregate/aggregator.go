package aggregate

import (
	"fmt"
	"time"

	"github.com/okane-data/tickbar/internal/domain"
)

// Aggregate partitions [start, end) into consecutive half-open windows of the
// interval's length and emits one OHLCV bar per window that received at least
// one tick, in ascending window order. Empty windows are omitted, never
// forward-filled. The final window is clipped to end when (end - start) is
// not an exact multiple of the interval. series must be sorted non-decreasing
// by timestamp; ticks outside [start, end) are ignored.
func Aggregate(series []domain.Tick, start, end time.Time, iv domain.Interval) ([]domain.Bar, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s", domain.ErrInvalidRange,
			start.Format(domain.TimeLayout), end.Format(domain.TimeLayout))
	}
	dur := iv.Duration()
	if dur <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration", domain.ErrInvalidInterval)
	}

	var bars []domain.Bar
	window := -1
	var cur domain.Bar

	flush := func() {
		if window >= 0 {
			bars = append(bars, cur)
		}
	}

	for _, tick := range series {
		if tick.Timestamp.Before(start) || !tick.Timestamp.Before(end) {
			continue
		}

		w := int(tick.Timestamp.Sub(start) / dur)
		if w != window {
			// series is sorted, so windows only move forward
			flush()
			winStart := start.Add(time.Duration(w) * dur)
			winEnd := winStart.Add(dur)
			if winEnd.After(end) {
				winEnd = end
			}
			cur = domain.Bar{
				Start:  winStart,
				End:    winEnd,
				Open:   tick.Price,
				High:   tick.Price,
				Low:    tick.Price,
				Close:  tick.Price,
				Volume: tick.Volume,
			}
			window = w
			continue
		}

		if tick.Price > cur.High {
			cur.High = tick.Price
		}
		if tick.Price < cur.Low {
			cur.Low = tick.Price
		}
		cur.Close = tick.Price
		cur.Volume += tick.Volume
	}
	flush()

	return bars, nil
}
