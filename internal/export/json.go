package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonExport struct {
	ExportedAt string              `json:"exported_at"`
	Tab        string              `json:"tab"`
	From       string              `json:"from,omitempty"`
	To         string              `json:"to,omitempty"`
	Count      int                 `json:"count"`
	Rows       []map[string]string `json:"rows"`
}

// ToJSON writes one object per row keyed by column header.
func ToJSON(t Table, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tab:        t.Name,
		Count:      len(t.Rows),
		Rows:       make([]map[string]string, 0, len(t.Rows)),
	}
	if t.Range != nil {
		export.From = t.Range.StartDate()
		export.To = t.Range.EndDate()
	}

	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		export.Rows = append(export.Rows, obj)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
