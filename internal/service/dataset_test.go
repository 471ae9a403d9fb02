package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/okane-data/tickbar/internal/aggregate"
	"github.com/okane-data/tickbar/internal/clean"
	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("data", 0o755))

	// Two raw files: one bad price row, one pre-open row, rest valid.
	require.NoError(t, afero.WriteFile(fs, "data/day1.csv", []byte(
		"timestamp,price,volume\n"+
			"2024-05-06 09:30:00,10,100\n"+
			"2024-05-06 09:30:05,abc,50\n"+
			"2024-05-06 09:31:00,9,200\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/day2.csv", []byte(
		"timestamp,price,volume\n"+
			"2024-05-06 09:15:00,11,25\n"+
			"2024-05-06 09:30:05,12,50\n"), 0o644))
	return fs
}

func TestLoadRunsSourceAndCleaner(t *testing.T) {
	ds, err := Load(newTestFs(t), "data", clean.DefaultSigmaMultiplier)
	require.NoError(t, err)

	assert.Equal(t, 5, ds.RowsLoaded())
	assert.Equal(t, 3, ds.Size())
	assert.Equal(t, 1, ds.Report().Count(clean.ReasonBadPrice))
	assert.Equal(t, 1, ds.Report().Count(clean.ReasonOutOfSession))
	assert.Equal(t, 4, ds.Stats().Samples, "unparseable price excluded from stats")

	// Series is merged across files and time ordered.
	series := ds.Series()
	require.Len(t, series, 3)
	assert.Equal(t, 10.0, series[0].Price)
	assert.Equal(t, 12.0, series[1].Price)
	assert.Equal(t, 9.0, series[2].Price)
}

func TestDatasetAggregate(t *testing.T) {
	ds, err := Load(newTestFs(t), "data", clean.DefaultSigmaMultiplier)
	require.NoError(t, err)

	bars, err := ds.Aggregate(context.Background(), aggregate.Request{
		Start:    "2024-05-06 09:30:00",
		End:      "2024-05-06 09:32:00",
		Interval: "1m",
	})
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 10.0, bars[0].Open)
	assert.Equal(t, 12.0, bars[0].High)
	assert.Equal(t, 12.0, bars[0].Close)
	assert.Equal(t, int64(150), bars[0].Volume)
	assert.Equal(t, int64(200), bars[1].Volume)
}

func TestDatasetAggregateSurfacesInputErrors(t *testing.T) {
	ds, err := Load(newTestFs(t), "data", clean.DefaultSigmaMultiplier)
	require.NoError(t, err)

	_, err = ds.Aggregate(context.Background(), aggregate.Request{
		Start:    "2024-05-06 09:30:00",
		End:      "2024-05-06 09:30:00",
		Interval: "1m",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = ds.Aggregate(context.Background(), aggregate.Request{
		Start:    "2024-05-06 09:30:00",
		End:      "2024-05-06 10:00:00",
		Interval: "1y",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "missing", clean.DefaultSigmaMultiplier)
	assert.Error(t, err)
}

func TestWriteRunReport(t *testing.T) {
	fs := afero.NewMemMapFs()
	report := NewRunReport("data")
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "data", report.TickDir)

	report.RowsLoaded = 5
	report.TicksKept = 3
	report.BarsWritten = 2
	report.FinishedAt = report.StartedAt

	require.NoError(t, WriteRunReport(fs, ".lastrun.json", report))

	data, err := afero.ReadFile(fs, ".lastrun.json")
	require.NoError(t, err)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, 5, decoded.RowsLoaded)
	assert.Equal(t, 2, decoded.BarsWritten)
}
