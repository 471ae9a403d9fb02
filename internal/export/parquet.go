package export

import (
	"fmt"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/spf13/afero"
)

// barRow is the flat parquet projection of a bar; timestamps are Unix
// milliseconds of the window boundaries.
type barRow struct {
	Start  int64   `parquet:"start"`
	End    int64   `parquet:"end"`
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume int64   `parquet:"volume"`
}

// ParquetSaver writes bars as a parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(fs afero.Fs, bars []domain.Bar, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bar file: %w", err)
	}
	defer f.Close()

	rows := make([]barRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, barRow{
			Start:  b.Start.UnixMilli(),
			End:    b.End.UnixMilli(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return parquet.Write(f, rows)
}
