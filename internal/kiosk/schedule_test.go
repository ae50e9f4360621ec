package kiosk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule() SafetySchedule {
	return SafetySchedule{
		ID:          4,
		Title:       "SAFETY MEETING SCHEDULES",
		Month:       "March",
		Year:        2025,
		Instruction: "Bring vests.",
		Meetings: []Meeting{
			{ID: "b", Date: "2025-03-12", Time: "14:00", Category: MeetingDriver},
			{ID: "a", Date: "2025-03-05", Time: "09:30", Category: MeetingDriver},
			{ID: "c", Date: "2025-03-05", Time: "08:00", Category: MeetingDriver},
			{ID: "d", Date: "2025-03-06", Time: "10:00", Category: MeetingTechnician},
		},
	}
}

func TestMeetingsByCategorySorted(t *testing.T) {
	got := MeetingsByCategory(sampleSchedule(), MeetingDriver)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, MeetingsByCategory(sampleSchedule(), MeetingCoordinator))
}

func TestScheduleText(t *testing.T) {
	text := ScheduleText(sampleSchedule())
	assert.True(t, strings.HasPrefix(text, "SAFETY MEETING SCHEDULES\nMarch 2025\n"))
	assert.Contains(t, text, "Drivers:\n  Wednesday, March 5, 2025 - 8:00\n")
	assert.Contains(t, text, "Technicians:\n")
	assert.NotContains(t, text, "Coordinators")
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "http://kiosk.local/safety/abc", ShareURL("http://kiosk.local/", "abc"))
}

func TestEditorKeepsDraftAcrossRefresh(t *testing.T) {
	var e ScheduleEditor
	require.True(t, e.Sync(sampleSchedule()))
	e.Edit()

	_, err := e.AddMeeting("2025-03-20", "07:15", MeetingCoordinator)
	require.NoError(t, err)
	require.True(t, e.DeleteMeeting("a"))

	refreshed := sampleSchedule()
	refreshed.Title = "changed elsewhere"
	assert.False(t, e.Sync(refreshed))
	assert.True(t, e.Editing())
	assert.Equal(t, "SAFETY MEETING SCHEDULES", e.Draft().Title)
	assert.Len(t, e.Draft().Meetings, 4)
	assert.Equal(t, refreshed, e.Initial())

	other := sampleSchedule()
	other.ID = 5
	other.Meetings = nil
	assert.True(t, e.Sync(other))
	assert.False(t, e.Editing())
	assert.Empty(t, e.Draft().Meetings)
}

func TestEditorCancelRestoresInitial(t *testing.T) {
	var e ScheduleEditor
	e.Sync(sampleSchedule())
	e.Edit()
	e.SetHeader("x", "April", 2026, "y")
	e.DeleteMeeting("d")

	e.Cancel()
	assert.False(t, e.Editing())
	assert.Equal(t, sampleSchedule(), e.Draft())
}

func TestEditorCancelAfterRefreshRestoresLatest(t *testing.T) {
	var e ScheduleEditor
	e.Sync(sampleSchedule())
	e.Edit()
	e.SetHeader("draft title", "April", 2026, "y")

	refreshed := sampleSchedule()
	refreshed.Title = "saved elsewhere"
	require.False(t, e.Sync(refreshed))
	assert.Equal(t, "draft title", e.Draft().Title)

	e.Cancel()
	assert.False(t, e.Editing())
	assert.Equal(t, "saved elsewhere", e.Draft().Title)
	assert.Equal(t, refreshed, e.Draft())
}

func TestAddMeetingNeedsAllFields(t *testing.T) {
	var e ScheduleEditor
	e.Sync(SafetySchedule{})
	_, err := e.AddMeeting("", "09:00", MeetingDriver)
	assert.ErrorIs(t, err, ErrIncompleteMeeting)
	_, err = e.AddMeeting("2025-03-01", "09:00", "")
	assert.ErrorIs(t, err, ErrIncompleteMeeting)
	_, err = e.AddMeeting("03/01/2025", "09:00", MeetingDriver)
	assert.Error(t, err)

	m, err := e.AddMeeting("2025-03-01", "09:00", MeetingDriver)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Len(t, e.Draft().Meetings, 1)
}
