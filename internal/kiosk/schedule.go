package kiosk

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSchedule is the template for a new safety meeting schedule.
func DefaultSchedule(now time.Time) SafetySchedule {
	return SafetySchedule{
		Title:       "SAFETY MEETING SCHEDULES",
		Month:       now.Month().String(),
		Year:        now.Year(),
		Instruction: "Drivers and Coordinators - Please have vests and closed-toe shoes.",
	}
}

// MeetingsByCategory returns the meetings of one category ordered by date
// then time.
func MeetingsByCategory(s SafetySchedule, c MeetingCategory) []Meeting {
	var out []Meeting
	for _, m := range s.Meetings {
		if m.Category == c {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

// FormatMeetingDate renders "2025-03-04" as "Tuesday, March 4, 2025".
func FormatMeetingDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatMeetingTime renders a 24 hour "HH:MM" on a 12 hour clock without
// the AM/PM suffix, as printed on the posted schedule.
func FormatMeetingTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04")
}

// ScheduleText is the plain-text export of a schedule. Categories without
// meetings are left out.
func ScheduleText(s SafetySchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s %d\n\n%s\n\n", s.Title, s.Month, s.Year, s.Instruction)
	for _, c := range MeetingCategories {
		meetings := MeetingsByCategory(s, c)
		if len(meetings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", c.Label())
		for _, m := range meetings {
			fmt.Fprintf(&b, "  %s - %s\n", FormatMeetingDate(m.Date), FormatMeetingTime(m.Time))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ShareURL is the public link for a schedule's share token.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/safety/" + token
}

var ErrIncompleteMeeting = errors.New("meeting needs a date, a time and a category")

// ScheduleEditor keeps an edit-in-progress draft of one safety schedule.
//
// The draft follows upstream data only on the first Sync or when upstream
// names a different schedule id; a background refresh of the schedule being
// edited never overwrites the draft, but it becomes what Cancel restores.
type ScheduleEditor struct {
	initial     SafetySchedule
	draft       SafetySchedule
	editing     bool
	initialized bool
}

// Sync offers the latest fetched copy of the schedule to the editor and
// reports whether the draft was replaced.
func (e *ScheduleEditor) Sync(upstream SafetySchedule) bool {
	switch {
	case !e.initialized:
		e.initialized = true
	case upstream.ID != 0 && upstream.ID != e.draft.ID:
		e.editing = false
	default:
		e.initial = upstream
		return false
	}
	e.initial = upstream
	e.draft = cloneSchedule(upstream)
	return true
}

func (e ScheduleEditor) Draft() SafetySchedule   { return e.draft }
func (e ScheduleEditor) Initial() SafetySchedule { return e.initial }
func (e ScheduleEditor) Editing() bool           { return e.editing }

func (e *ScheduleEditor) Edit() { e.editing = true }

// Cancel discards the draft and returns to the last fetched copy.
func (e *ScheduleEditor) Cancel() {
	e.draft = cloneSchedule(e.initial)
	e.editing = false
}

// Saved records that the backend accepted the draft.
func (e *ScheduleEditor) Saved(s SafetySchedule) {
	e.initial = s
	e.draft = cloneSchedule(s)
	e.editing = false
}

func (e *ScheduleEditor) SetHeader(title, month string, year int, instruction string) {
	e.draft.Title = title
	e.draft.Month = month
	e.draft.Year = year
	e.draft.Instruction = instruction
}

// AddMeeting appends a meeting to the draft with a fresh id.
func (e *ScheduleEditor) AddMeeting(date, hhmm string, c MeetingCategory) (Meeting, error) {
	if date == "" || hhmm == "" || c == "" {
		return Meeting{}, ErrIncompleteMeeting
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Meeting{}, fmt.Errorf("meeting date: %w", err)
	}
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return Meeting{}, fmt.Errorf("meeting time: %w", err)
	}
	m := Meeting{ID: uuid.NewString(), Date: date, Time: hhmm, Category: c}
	e.draft.Meetings = append(cloneMeetings(e.draft.Meetings), m)
	return m, nil
}

func (e *ScheduleEditor) DeleteMeeting(id string) bool {
	for i, m := range e.draft.Meetings {
		if m.ID == id {
			ms := cloneMeetings(e.draft.Meetings)
			e.draft.Meetings = append(ms[:i], ms[i+1:]...)
			return true
		}
	}
	return false
}

func cloneSchedule(s SafetySchedule) SafetySchedule {
	s.Meetings = cloneMeetings(s.Meetings)
	return s
}

func cloneMeetings(ms []Meeting) []Meeting {
	if ms == nil {
		return nil
	}
	out := make([]Meeting, len(ms))
	copy(out, ms)
	return out
}
