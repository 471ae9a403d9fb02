package export

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
)

// BarHeader is the fixed column header of bar CSV files.
var BarHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// CSVSaver writes bars as delimited text, one bar per line in sequence order.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(fs afero.Fs, bars []domain.Bar, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bar file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(BarHeader); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			b.Start.Format(domain.TimeLayout),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			strconv.FormatInt(b.Volume, 10),
		}); err != nil {
			return err
		}
	}
	return w.Error()
}
