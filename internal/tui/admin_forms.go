package tui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/kiosk/internal/kiosk"
)

func newDateRangeForm(r kiosk.DateRange) *formModel {
	start := r.StartDate()
	end := r.EndDate()
	return newFormModel("Date Range", func() tea.Msg {
		return setRangeMsg{start: strings.TrimSpace(start), end: strings.TrimSpace(end)}
	},
		huh.NewGroup(
			huh.NewInput().Title("From").Value(&start).Validate(validDate),
			huh.NewInput().Title("To").Value(&end).Validate(validDate),
		),
	)
}

func validPIN(s string) error {
	if len(s) != 4 {
		return errors.New("PIN must be 4 digits")
	}
	return digitsOnly(s)
}

func newEmployeeForm() *formModel {
	ne := &kiosk.NewEmployee{IsDriver: true}
	return newFormModel("Add Employee", func() tea.Msg {
		e := *ne
		e.ExternalID = strings.TrimSpace(e.ExternalID)
		e.Name = strings.TrimSpace(e.Name)
		return addEmployeeMsg{employee: e}
	},
		huh.NewGroup(
			huh.NewInput().Title("Employee ID").Value(&ne.ExternalID).
				Validate(func(s string) error {
					if err := required("employee id")(s); err != nil {
						return err
					}
					return digitsOnly(s)
				}),
			huh.NewInput().Title("Name").Value(&ne.Name).Validate(required("name")),
			huh.NewInput().Title("PIN").Value(&ne.PIN).EchoMode(huh.EchoModePassword).Validate(validPIN),
			huh.NewConfirm().Title("Driver").Value(&ne.IsDriver),
			huh.NewConfirm().Title("Admin").Value(&ne.IsAdmin),
		),
	)
}

func newStatusForm(r kiosk.Request) *formModel {
	status := r.Status
	opts := make([]huh.Option[kiosk.RequestStatus], len(kiosk.RequestStatuses))
	for i, s := range kiosk.RequestStatuses {
		opts[i] = huh.NewOption(strings.ToUpper(string(s[:1]))+string(s[1:]), s)
	}
	return newFormModel(r.Kind.Label()+" from "+r.EmployeeName, func() tea.Msg {
		return setStatusMsg{category: r.Kind, id: r.ID, status: status}
	},
		huh.NewGroup(
			huh.NewNote().Title(kiosk.RequestSummary(r.Form)),
			huh.NewSelect[kiosk.RequestStatus]().Title("Status").Options(opts...).Value(&status),
		),
	)
}

func newMeetingForm(now time.Time) *formModel {
	date := now.Format(kiosk.DateLayout)
	hhmm := "07:00"
	cat := kiosk.MeetingDriver
	opts := make([]huh.Option[kiosk.MeetingCategory], len(kiosk.MeetingCategories))
	for i, c := range kiosk.MeetingCategories {
		opts[i] = huh.NewOption(c.Label(), c)
	}
	return newFormModel("Add Meeting", func() tea.Msg {
		return addMeetingMsg{date: strings.TrimSpace(date), time: strings.TrimSpace(hhmm), category: cat}
	},
		huh.NewGroup(
			huh.NewSelect[kiosk.MeetingCategory]().Title("Group").Options(opts...).Value(&cat),
			huh.NewInput().Title("Date").Value(&date).Validate(validDate),
			huh.NewInput().Title("Time").Value(&hhmm).Validate(validTime),
		),
	)
}

func newHeaderForm(s kiosk.SafetySchedule) *formModel {
	title := s.Title
	month := s.Month
	year := strconv.Itoa(s.Year)
	instruction := s.Instruction

	months := make([]huh.Option[string], 12)
	for i := range months {
		name := time.Month(i + 1).String()
		months[i] = huh.NewOption(name, name)
	}
	return newFormModel("Schedule Header", func() tea.Msg {
		y, _ := strconv.Atoi(strings.TrimSpace(year))
		return setHeaderMsg{title: strings.TrimSpace(title), month: month, year: y, instruction: instruction}
	},
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&title).Validate(required("title")),
			huh.NewSelect[string]().Title("Month").Options(months...).Value(&month),
			huh.NewInput().Title("Year").Value(&year).Validate(func(v string) error {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err != nil || n < 2000 || n > 9999 {
					return errors.New("enter a four digit year")
				}
				return nil
			}),
			huh.NewText().Title("Instruction").Value(&instruction).Lines(3),
		),
	)
}
