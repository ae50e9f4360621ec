package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/kiosk/internal/kiosk"
)

// Table is a snapshot of one admin tab ready to be written out.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
	Range   *kiosk.DateRange
}

// FromTab builds a Table from the cached collection of an admin tab.
func FromTab(tab kiosk.Tab, rng kiosk.DateRange, records []kiosk.Record) Table {
	t := Table{Name: tab.String(), Columns: tab.Columns()}
	if tab.DateScoped() {
		r := rng
		t.Range = &r
	}
	for _, rec := range records {
		t.Rows = append(t.Rows, rec.Cells())
	}
	return t
}

// Format is an export file format.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatXLSX
)

var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatXLSX:
		return "XLSX"
	}
	return "CSV"
}

func (f Format) ext() string {
	return strings.ToLower(f.String())
}

// Filename is "kiosk-<tab>-<date>.<ext>" inside dir.
func Filename(dir string, t Table, f Format, now time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(t.Name), " ", "-")
	return filepath.Join(dir, fmt.Sprintf("kiosk-%s-%s.%s", slug, now.Format("2006-01-02"), f.ext()))
}

// Write exports t to path in format f.
func Write(t Table, f Format, path string) error {
	switch f {
	case FormatJSON:
		return ToJSON(t, path)
	case FormatXLSX:
		return ToXLSX(t, path)
	}
	return ToCSV(t, path)
}
