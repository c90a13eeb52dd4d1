package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/piwi3910/FoilCut/internal/model"
)

// WriteRollsCSV writes one line per roll, for the cutting table.
func WriteRollsCSV(w io.Writer, cfg model.MixConfiguration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"roll", "foil", "width_m", "used_m", "remaining_m", "strips"}); err != nil {
		return err
	}
	for _, r := range cfg.Rolls {
		rec := []string{
			strconv.Itoa(r.Number),
			string(r.Foil),
			formatMetres(float64(r.RollWidth)),
			formatMetres(r.UsedLength),
			formatMetres(r.WasteLength),
			stripList(r.Strips),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportRollsCSV writes the roll list to path.
func ExportRollsCSV(path string, cfg model.MixConfiguration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteRollsCSV(f, cfg); err != nil {
		f.Close()
		return fmt.Errorf("failed to write rolls: %w", err)
	}
	return f.Close()
}

func formatMetres(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
