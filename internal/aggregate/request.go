package aggregate

import (
	"fmt"
	"time"

	"github.com/okane-data/tickbar/internal/domain"
)

// Request is the caller-facing aggregation request shape. Timestamps are
// "YYYY-MM-DD HH:MM:SS", the interval follows the <int><unit> grammar.
type Request struct {
	Start    string `json:"start_time" validate:"required"`
	End      string `json:"end_time" validate:"required"`
	Interval string `json:"interval" validate:"required"`
}

// ParseRequest validates the request and returns its typed fields. Nothing is
// clamped or reordered: a reversed or empty range is the caller's error.
func ParseRequest(req Request) (start, end time.Time, iv domain.Interval, err error) {
	start, err = time.Parse(domain.TimeLayout, req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, 0,
			fmt.Errorf("%w: start_time %q", domain.ErrInvalidTimestamp, req.Start)
	}
	end, err = time.Parse(domain.TimeLayout, req.End)
	if err != nil {
		return time.Time{}, time.Time{}, 0,
			fmt.Errorf("%w: end_time %q", domain.ErrInvalidTimestamp, req.End)
	}
	iv, err = domain.ParseInterval(req.Interval)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, 0,
			fmt.Errorf("%w: start %q is not before end %q", domain.ErrInvalidRange, req.Start, req.End)
	}
	return start, end, iv, nil
}
