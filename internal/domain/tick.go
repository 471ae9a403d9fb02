package domain

import "time"

const (
	// TimeLayout is the wire format for request boundaries and bar starts.
	TimeLayout = "2006-01-02 15:04:05"

	// TickTimeLayout is the timestamp format used by tick files. The
	// fractional part is optional.
	TickTimeLayout = "2006-01-02 15:04:05.999999999"
)

// RawTick is one unvalidated row as read from a source file. Fields stay as
// text; the cleaner decides what parses. Seq is the source row order across
// all loaded files.
type RawTick struct {
	Timestamp string
	Price     string
	Volume    string
	Seq       int
}

// Tick is a validated trade record. Identity is (Timestamp, Seq); multiple
// ticks may share a timestamp.
type Tick struct {
	Timestamp time.Time
	Price     float64
	Volume    int64
	Seq       int
}

// PriceStats holds the mean and population standard deviation of the raw
// price column, computed once over the full loaded set before cleaning.
type PriceStats struct {
	Mean    float64
	StdDev  float64
	Samples int
}

// Available reports whether the statistical band rule can be evaluated.
func (s PriceStats) Available() bool {
	return s.Samples > 0 && s.StdDev > 0
}
