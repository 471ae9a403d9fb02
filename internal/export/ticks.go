package export

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
)

// TickHeader is the fixed column header of cleaned tick CSV files.
var TickHeader = []string{"timestamp", "price", "volume"}

// WriteTicks persists a cleaned series as delimited text, one tick per line
// in series order.
func WriteTicks(fs afero.Fs, ticks []domain.Tick, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tick file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(TickHeader); err != nil {
		return err
	}
	for _, t := range ticks {
		if err := w.Write([]string{
			t.Timestamp.Format(domain.TickTimeLayout),
			floatStr(t.Price),
			strconv.FormatInt(t.Volume, 10),
		}); err != nil {
			return err
		}
	}
	return w.Error()
}
