package clean

import (
	"testing"
	"time"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(ts, price, volume string, seq int) domain.RawTick {
	return domain.RawTick{Timestamp: ts, Price: price, Volume: volume, Seq: seq}
}

func TestCleanRejectsByRule(t *testing.T) {
	// band = mean 10 +/- 3*1 = [7, 13]
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}

	tests := []struct {
		name   string
		row    domain.RawTick
		reason Reason
	}{
		{"missing timestamp", row("", "10", "5", 0), ReasonBadTimestamp},
		{"unparseable timestamp", row("06/05/2024 10:00", "10", "5", 0), ReasonBadTimestamp},
		{"missing price", row("2024-05-06 10:00:00", "", "5", 0), ReasonBadPrice},
		{"unparseable price", row("2024-05-06 10:00:00", "ten", "5", 0), ReasonBadPrice},
		{"nan price", row("2024-05-06 10:00:00", "NaN", "5", 0), ReasonBadPrice},
		{"missing volume", row("2024-05-06 10:00:00", "10", "", 0), ReasonBadVolume},
		{"fractional volume", row("2024-05-06 10:00:00", "10", "1.5", 0), ReasonBadVolume},
		{"negative volume", row("2024-05-06 10:00:00", "10", "-1", 0), ReasonBadVolume},
		{"zero price", row("2024-05-06 10:00:00", "0", "5", 0), ReasonNonPositivePrice},
		{"negative price", row("2024-05-06 10:00:00", "-10", "5", 0), ReasonNonPositivePrice},
		{"above band", row("2024-05-06 10:00:00", "13.01", "5", 0), ReasonOutOfBand},
		{"below band", row("2024-05-06 10:00:00", "6.99", "5", 0), ReasonOutOfBand},
		{"missing decimal point magnitude", row("2024-05-06 10:00:00", "1050", "5", 0), ReasonOutOfBand},
		{"before open", row("2024-05-06 09:29:59", "10", "5", 0), ReasonOutOfSession},
		{"after close", row("2024-05-06 16:00:00.000001", "10", "5", 0), ReasonOutOfSession},
		{"overnight", row("2024-05-06 03:00:00", "10", "5", 0), ReasonOutOfSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks, report := New(stats, 3).Clean([]domain.RawTick{tt.row})
			assert.Empty(t, ticks)
			assert.Equal(t, 1, report.Count(tt.reason))
			assert.Equal(t, 1, report.Rejected())
			assert.Equal(t, 0, report.Accepted)
		})
	}
}

func TestCleanAcceptsBoundaries(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}

	rows := []domain.RawTick{
		row("2024-05-06 09:30:00", "10", "5", 0),         // session open, inclusive
		row("2024-05-06 16:00:00", "10", "6", 1),         // session close, inclusive
		row("2024-05-06 10:00:00", "13", "7", 2),         // band upper edge, inclusive
		row("2024-05-06 10:00:01", "7", "8", 3),          // band lower edge, inclusive
		row("2024-05-06 10:00:02.125", "10", "9", 4),     // fractional seconds
		row("2024-05-06 10:00:03", "10.5", "0", 5),       // zero volume is valid
	}

	ticks, report := New(stats, 3).Clean(rows)
	require.Len(t, ticks, len(rows))
	assert.Equal(t, len(rows), report.Accepted)
	assert.Equal(t, 0, report.Rejected())
}

func TestCleanSortsByTimestampStable(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}

	rows := []domain.RawTick{
		row("2024-05-06 10:00:02", "11", "1", 0),
		row("2024-05-06 10:00:01", "10", "2", 1),
		row("2024-05-06 10:00:01", "12", "3", 2), // same second as row 1, later in source
		row("2024-05-06 09:30:00", "9", "4", 3),
	}

	ticks, _ := New(stats, 3).Clean(rows)
	require.Len(t, ticks, 4)
	for i := 1; i < len(ticks); i++ {
		assert.False(t, ticks[i].Timestamp.Before(ticks[i-1].Timestamp), "series must be non-decreasing")
	}
	// ties keep source order
	assert.Equal(t, []int{3, 1, 2, 0}, []int{ticks[0].Seq, ticks[1].Seq, ticks[2].Seq, ticks[3].Seq})
	assert.Equal(t, 10.0, ticks[1].Price)
	assert.Equal(t, 12.0, ticks[2].Price)
}

func TestCleanZeroStdDevDisablesBand(t *testing.T) {
	// A flat price column (or no statistics at all) cannot produce a band;
	// rows far from the mean must survive instead of everything failing.
	stats := domain.PriceStats{Mean: 10, StdDev: 0, Samples: 100}

	ticks, report := New(stats, 3).Clean([]domain.RawTick{
		row("2024-05-06 10:00:00", "1000", "5", 0),
	})
	require.Len(t, ticks, 1)
	assert.Equal(t, 0, report.Count(ReasonOutOfBand))

	ticks, _ = New(domain.PriceStats{}, 3).Clean([]domain.RawTick{
		row("2024-05-06 10:00:00", "1000", "5", 0),
	})
	assert.Len(t, ticks, 1)
}

func TestCleanExactDuplicates(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}

	rows := []domain.RawTick{
		row("2024-05-06 10:00:00", "10", "5", 0),
		row("2024-05-06 10:00:00", "10", "5", 1), // identical triple, dropped
		row("2024-05-06 10:00:00", "11", "5", 2), // same timestamp only, kept
	}

	ticks, report := New(stats, 3).Clean(rows)
	assert.Len(t, ticks, 2)
	assert.Equal(t, 1, report.Count(ReasonDuplicate))
}

func TestCleanDefaultSigmaMultiplier(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}
	c := New(stats, 0)
	assert.Equal(t, DefaultSigmaMultiplier, c.sigma)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}
	rows := []domain.RawTick{
		row("2024-05-06 10:00:02", "10", "1", 0),
		row("2024-05-06 10:00:01", "10", "2", 1),
	}
	orig := make([]domain.RawTick, len(rows))
	copy(orig, rows)

	New(stats, 3).Clean(rows)
	assert.Equal(t, orig, rows)
}

func TestCleanReportTotals(t *testing.T) {
	stats := domain.PriceStats{Mean: 10, StdDev: 1, Samples: 100}
	rows := []domain.RawTick{
		row("2024-05-06 10:00:00", "10", "5", 0),
		row("2024-05-06 10:00:01", "999", "5", 1),
		row("bad", "10", "5", 2),
		row("2024-05-06 02:00:00", "10", "5", 3),
	}
	ticks, report := New(stats, 3).Clean(rows)
	assert.Equal(t, len(rows), report.Input)
	assert.Equal(t, len(ticks), report.Accepted)
	assert.Equal(t, len(rows)-len(ticks), report.Rejected())
}

func TestInSession(t *testing.T) {
	parse := func(s string) time.Time {
		ts, err := time.Parse(domain.TickTimeLayout, s)
		require.NoError(t, err)
		return ts
	}
	assert.True(t, inSession(parse("2024-05-06 09:30:00")))
	assert.True(t, inSession(parse("2024-05-06 16:00:00")))
	assert.True(t, inSession(parse("2024-05-06 12:34:56.789")))
	assert.False(t, inSession(parse("2024-05-06 09:29:59.999999")))
	assert.False(t, inSession(parse("2024-05-06 16:00:00.000001")))
}
