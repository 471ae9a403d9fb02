package export

import (
	"encoding/json"
	"fmt"

	"github.com/okane-data/tickbar/internal/domain"
	"github.com/spf13/afero"
)

// JSONSaver writes bars as an indented JSON array.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(fs afero.Fs, bars []domain.Bar, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bar file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(bars)
}
