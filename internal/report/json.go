package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func WriteJSON(d *Document, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteRowsJSONL writes one report row per line.
func WriteRowsJSONL(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, r := range d.Rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	return nil
}
