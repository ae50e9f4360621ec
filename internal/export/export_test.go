package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sadopc/kiosk/internal/kiosk"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleTable() Table {
	records := []kiosk.Record{
		kiosk.Timesheet{ID: 1, Date: "2025-03-04", EmployeeName: "Dana", Payload: kiosk.TimesheetPayload{
			BusNumber: "42",
			Lines:     []kiosk.TimesheetLine{{WorkOrder: "WO-1", StraightTime: decimal.NewFromInt(8)}},
		}},
		kiosk.Timesheet{ID: 2, Date: "2025-03-05", EmployeeName: "Lee, Jr.", Payload: kiosk.TimesheetPayload{BusNumber: "7"}},
	}
	return FromTab(kiosk.TabTimesheets, kiosk.DefaultDateRange(now), records)
}

// ============================================================
// Table
// ============================================================

func TestFromTab(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, "Timesheets", tbl.Name)
	assert.Equal(t, kiosk.TabTimesheets.Columns(), tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	require.NotNil(t, tbl.Range)

	emp := FromTab(kiosk.TabEmployees, kiosk.DefaultDateRange(now), nil)
	assert.Nil(t, emp.Range)
	assert.Empty(t, emp.Rows)
}

func TestFilename(t *testing.T) {
	tbl := Table{Name: "Time Off"}
	assert.Equal(t, filepath.Join("out", "kiosk-time-off-2025-03-10.xlsx"), Filename("out", tbl, FormatXLSX, now))
	assert.Equal(t, filepath.Join("out", "kiosk-time-off-2025-03-10.csv"), Filename("out", tbl, FormatCSV, now))
}

// ============================================================
// Formats
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, Write(sampleTable(), FormatCSV, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, "Lee, Jr.", records[2][1])
	assert.Equal(t, "8.00", records[1][5])
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	require.NoError(t, Write(sampleTable(), FormatJSON, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out jsonExport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Timesheets", out.Tab)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "2025-03-03", out.From)
	assert.Equal(t, "42", out.Rows[0]["Bus"])
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, ToJSON(Table{Name: "Employees", Columns: []string{"Name"}}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out jsonExport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Rows)
}

func TestToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, Write(sampleTable(), FormatXLSX, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Timesheets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee", rows[0][1])
	assert.Equal(t, "Dana", rows[1][1])
}

func TestWriteBadPath(t *testing.T) {
	for _, f := range Formats {
		err := Write(sampleTable(), f, filepath.Join(t.TempDir(), "missing", "x."+f.ext()))
		assert.Error(t, err, f.String())
	}
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteText(dir, "Safety March 2025", "SAFETY MEETING SCHEDULES\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "safety-march-2025.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SAFETY MEETING SCHEDULES\n", string(data))

	_, err = WriteText(filepath.Join(dir, "missing"), "x", "")
	assert.Error(t, err)
}
