package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
)

// Loader reads tick CSV files from a directory and combines them into a
// single row set. Expected columns per row: timestamp, price, volume; the
// first row of every file is a header and is skipped.
type Loader struct {
	fs afero.Fs
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads every *.csv file in dir (non-recursive) and returns the combined
// rows in file order, together with the mean and population standard
// deviation of the prices that parse and are strictly positive. Rows are not
// validated here; that is the cleaner's job. An unreadable file is logged and
// skipped rather than failing the whole load.
func (l *Loader) Load(dir string) ([]domain.RawTick, domain.PriceStats, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, domain.PriceStats{}, fmt.Errorf("failed to read tick directory: %w", err)
	}

	var rows []domain.RawTick
	var prices []float64
	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		n, err := l.loadFile(path.Join(dir, entry.Name()), &rows, &prices)
		if err != nil {
			slog.Warn("skipping tick file", "file", entry.Name(), "error", err)
			continue
		}
		files++
		slog.Debug("loaded tick file", "file", entry.Name(), "rows", n)
	}

	stats := computeStats(prices)
	slog.Info("tick data loaded", "files", files, "rows", len(rows),
		"price_mean", stats.Mean, "price_std_dev", stats.StdDev)
	return rows, stats, nil
}

func (l *Loader) loadFile(name string, rows *[]domain.RawTick, prices *[]float64) (int, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return 0, fmt.Errorf("failed to open tick file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header row
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	n := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("failed to parse csv: %w", err)
		}

		row := domain.RawTick{
			Timestamp: field(record, 0),
			Price:     field(record, 1),
			Volume:    field(record, 2),
			Seq:       len(*rows),
		}
		*rows = append(*rows, row)
		n++

		if price, err := strconv.ParseFloat(strings.TrimSpace(row.Price), 64); err == nil && price > 0 {
			*prices = append(*prices, price)
		}
	}
	return n, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

// computeStats returns mean and population standard deviation.
func computeStats(prices []float64) domain.PriceStats {
	if len(prices) == 0 {
		return domain.PriceStats{}
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	mean := sum / float64(len(prices))

	var variance float64
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))

	return domain.PriceStats{
		Mean:    mean,
		StdDev:  math.Sqrt(variance),
		Samples: len(prices),
	}
}

// WriteCombined persists the combined raw row set as a single CSV file with
// the standard header, one row per record in load order.
func (l *Loader) WriteCombined(name string, rows []domain.RawTick) error {
	f, err := l.fs.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create combined file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "price", "volume"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Timestamp, row.Price, row.Volume}); err != nil {
			return err
		}
	}
	return w.Error()
}
