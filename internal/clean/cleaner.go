package clean

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okane-data/tickbar/internal/domain"
)

const (
	// Regular session, exchange-local time of day. Both endpoints are
	// inclusive: a trade stamped exactly at the open or the close is valid.
	sessionOpen  = 9*time.Hour + 30*time.Minute
	sessionClose = 16 * time.Hour

	// DefaultSigmaMultiplier is the accepted width of the price band around
	// the mean, in standard deviations.
	DefaultSigmaMultiplier = 3.0
)

// Cleaner applies the validity rules to raw tick rows.
type Cleaner struct {
	stats domain.PriceStats
	sigma float64
}

// New returns a cleaner using the given price statistics and band multiplier.
// A non-positive multiplier falls back to DefaultSigmaMultiplier.
func New(stats domain.PriceStats, sigmaMultiplier float64) *Cleaner {
	if sigmaMultiplier <= 0 {
		sigmaMultiplier = DefaultSigmaMultiplier
	}
	return &Cleaner{stats: stats, sigma: sigmaMultiplier}
}

// Clean filters rows and returns the surviving ticks sorted non-decreasing by
// timestamp, ties keeping source order, together with the rejection report.
// The input slice is not modified.
func (c *Cleaner) Clean(rows []domain.RawTick) ([]domain.Tick, Report) {
	report := newReport(len(rows))

	banded := c.stats.Available()
	if !banded {
		// Without a spread the band cannot be evaluated; degrade rather than
		// reject everything.
		slog.Warn("price statistics unavailable, statistical band rule disabled",
			"samples", c.stats.Samples, "std_dev", c.stats.StdDev)
	}
	lower := c.stats.Mean - c.sigma*c.stats.StdDev
	upper := c.stats.Mean + c.sigma*c.stats.StdDev

	type rowKey struct {
		ts, price, volume string
	}
	seen := make(map[rowKey]struct{}, len(rows))

	ticks := make([]domain.Tick, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(domain.TickTimeLayout, strings.TrimSpace(row.Timestamp))
		if err != nil {
			report.reject(ReasonBadTimestamp)
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row.Price), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			report.reject(ReasonBadPrice)
			continue
		}
		volume, err := strconv.ParseInt(strings.TrimSpace(row.Volume), 10, 64)
		if err != nil || volume < 0 {
			report.reject(ReasonBadVolume)
			continue
		}
		if price <= 0 {
			report.reject(ReasonNonPositivePrice)
			continue
		}
		if banded && (price < lower || price > upper) {
			report.reject(ReasonOutOfBand)
			continue
		}
		if !inSession(ts) {
			report.reject(ReasonOutOfSession)
			continue
		}
		key := rowKey{row.Timestamp, row.Price, row.Volume}
		if _, dup := seen[key]; dup {
			report.reject(ReasonDuplicate)
			continue
		}
		seen[key] = struct{}{}

		ticks = append(ticks, domain.Tick{
			Timestamp: ts,
			Price:     price,
			Volume:    volume,
			Seq:       row.Seq,
		})
	}

	// The aggregator requires a non-decreasing series. SliceStable keeps
	// source order between ticks sharing a timestamp.
	sort.SliceStable(ticks, func(i, j int) bool {
		return ticks[i].Timestamp.Before(ticks[j].Timestamp)
	})

	report.Accepted = len(ticks)
	return ticks, report
}

// inSession reports whether the tick's local time of day falls within the
// regular session. Sub-second times past the close miss the window.
func inSession(ts time.Time) bool {
	midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	d := ts.Sub(midnight)
	return d >= sessionOpen && d <= sessionClose
}
