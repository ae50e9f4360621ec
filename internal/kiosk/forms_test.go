package kiosk

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftPayHours(t *testing.T) {
	cases := []struct {
		start, end, want string
	}{
		{"06:00", "14:30", "8.5"},
		{"22:00", "02:00", "4"},
		{"09:10", "09:30", "0.33"},
	}
	for _, tc := range cases {
		got, err := ShiftPayHours(tc.start, tc.end)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "%s-%s = %s", tc.start, tc.end, got)
	}
	_, err := ShiftPayHours("9am", "17:00")
	assert.Error(t, err)
}

func TestParseTimesheetLines(t *testing.T) {
	lines, err := ParseTimesheetLines("WO-1 | brakes | 4 | 1.5\n\n  WO-2 | tires\n")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "WO-1", lines[0].WorkOrder)
	assert.True(t, lines[0].Total().Equal(decimal.RequireFromString("5.5")))
	assert.True(t, lines[1].StraightTime.IsZero())

	_, err = ParseTimesheetLines("WO-3 | x | -2")
	assert.Error(t, err)
	_, err = ParseTimesheetLines("WO-3 | x | abc")
	assert.Error(t, err)
}

func TestInspectionPassedNeedsEveryItem(t *testing.T) {
	var all []string
	for _, sec := range InspectionChecklist {
		all = append(all, sec.Items...)
	}
	p := InspectionPayload{Checked: all}
	assert.True(t, p.Passed())

	p.Checked = all[1:]
	assert.False(t, p.Passed())
	assert.Equal(t, []string{all[0]}, p.Missing())
}

func TestValidateTimeOff(t *testing.T) {
	f := TimeOffRequest{
		EmployeeName:   "Dana",
		Date:           "2025-03-04",
		LeaveTypes:     []LeaveType{LeaveBirthday},
		RequestedDates: []string{"2025-04-01"},
		Signature:      "Dana",
	}
	require.NoError(t, Validate(f))

	f.RequestedDates = []string{"2025-04-01", "2025-04-02", "2025-04-03", "2025-04-04", "2025-04-05", "2025-04-06"}
	f.Signature = ""
	err := Validate(f)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "TimeOffRequest.RequestedDates")
	assert.Contains(t, ve, "TimeOffRequest.Signature")
}

func TestValidateNewEmployee(t *testing.T) {
	assert.NoError(t, Validate(NewEmployee{ExternalID: "1234", Name: "Sam", PIN: "0000"}))

	var ve ValidationError
	require.ErrorAs(t, Validate(NewEmployee{ExternalID: "12a", PIN: "123"}), &ve)
	assert.Len(t, ve, 3)
}

func TestLengthMessagesNameTheirUnit(t *testing.T) {
	var ve ValidationError
	require.ErrorAs(t, Validate(NewEmployee{ExternalID: "12345678901", Name: "Sam", PIN: "0000"}), &ve)
	assert.Equal(t, "ExternalID allows at most 10 characters", ve["NewEmployee.ExternalID"])

	req := TimeOffRequest{
		EmployeeName:   "Sam",
		Date:           "2025-03-01",
		LeaveTypes:     []LeaveType{LeaveBirthday},
		RequestedDates: []string{"2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07"},
		Signature:      "Sam",
	}
	ve = nil
	require.ErrorAs(t, Validate(req), &ve)
	assert.Equal(t, "RequestedDates allows at most 5 entries", ve["TimeOffRequest.RequestedDates"])
}

func TestDecodeFormRoundTripsOvertime(t *testing.T) {
	in := OvertimeRequest{
		EmployeeName: "Dana",
		Shifts: []OvertimeShift{
			{ShiftNumber: "3", DateOfShift: "2025-03-04", StartTime: "06:00", EndTime: "10:00", PayHours: decimal.NewFromInt(4)},
		},
		Signature: "Dana",
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	f, err := DecodeForm(CategoryOvertime, data)
	require.NoError(t, err)
	out, ok := f.(OvertimeRequest)
	require.True(t, ok)
	assert.True(t, OvertimeTotal(out).Equal(decimal.NewFromInt(4)))

	_, err = DecodeForm(CategoryDVI, data)
	assert.Error(t, err)
}
