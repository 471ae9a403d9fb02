package export

import (
	"strconv"
	"strings"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
)

// BarSaver persists one aggregated bar set to a file. The high level wiring
// picks the implementation; callers only depend on the interface.
type BarSaver interface {
	Save(fs afero.Fs, bars []domain.Bar, path string) error
	Extension() string
}

// NewBarSaver creates the saver for format (csv, json, parquet).
// Returns nil if the format is not supported.
func NewBarSaver(format string) BarSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
