package service

import (
	"context"
	"log/slog"

	"github.com/okane-data/tickbar/internal/aggregate"
	"github.com/okane-data/tickbar/internal/clean"
	"github.com/okane-data/tickbar/internal/domain"
	"github.com/okane-data/tickbar/internal/source"
	"github.com/spf13/afero"
)

// Dataset owns one loaded-and-cleaned tick set and serves aggregation
// requests over it. The series is immutable after Load.
type Dataset struct {
	series []domain.Tick
	stats  domain.PriceStats
	report clean.Report
	rows   int
}

// Load runs the source and the cleaner once and returns the resulting
// dataset: Source -> Cleaner, with the price statistics computed over the
// full raw set before cleaning.
func Load(fs afero.Fs, dir string, sigmaMultiplier float64) (*Dataset, error) {
	rows, stats, err := source.NewLoader(fs).Load(dir)
	if err != nil {
		return nil, err
	}

	series, report := clean.New(stats, sigmaMultiplier).Clean(rows)
	slog.Info("dataset ready",
		"rows", len(rows), "ticks", len(series), "rejected", report.Rejected())

	return &Dataset{
		series: series,
		stats:  stats,
		report: report,
		rows:   len(rows),
	}, nil
}

// Aggregate validates the request and buckets the cleaned series into bars.
func (d *Dataset) Aggregate(ctx context.Context, req aggregate.Request) ([]domain.Bar, error) {
	start, end, iv, err := aggregate.ParseRequest(req)
	if err != nil {
		return nil, err
	}
	bars, err := aggregate.Aggregate(d.series, start, end, iv)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "aggregated bars",
		"interval", iv.String(), "start", req.Start, "end", req.End, "bars", len(bars))
	return bars, nil
}

// Series returns the cleaned, time-ordered tick series.
func (d *Dataset) Series() []domain.Tick { return d.series }

// Stats returns the raw price statistics the cleaner was run with.
func (d *Dataset) Stats() domain.PriceStats { return d.stats }

// Report returns the cleaner's rejection report.
func (d *Dataset) Report() clean.Report { return d.report }

// RowsLoaded returns the number of raw rows read by the source.
func (d *Dataset) RowsLoaded() int { return d.rows }

// Size returns the number of ticks that survived cleaning.
func (d *Dataset) Size() int { return len(d.series) }
