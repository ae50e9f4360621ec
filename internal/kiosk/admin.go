package kiosk

import (
	"context"
	"time"
)

// Tab is an admin console tab.
type Tab int

const (
	TabDashboard Tab = iota
	TabEmployees
	TabTimesheets
	TabDVI
	TabIncidents
	TabTimeOff
	TabOvertime
	TabFMLA
	TabSafety
)

// Tabs is the display order of the admin console.
var Tabs = []Tab{TabDashboard, TabEmployees, TabTimesheets, TabDVI, TabIncidents, TabTimeOff, TabOvertime, TabFMLA, TabSafety}

var tabNames = []string{"Dashboard", "Employees", "Timesheets", "DVI", "Incidents", "Time Off", "Overtime", "FMLA", "Safety"}

func (t Tab) String() string {
	if int(t) >= 0 && int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}

// DateScoped reports whether the tab's list is filtered by the date range.
func (t Tab) DateScoped() bool {
	switch t {
	case TabDashboard, TabEmployees, TabSafety:
		return false
	}
	return true
}

// Category returns the record category a tab lists, if it is watched.
func (t Tab) Category() (Category, bool) {
	switch t {
	case TabDVI:
		return CategoryDVI, true
	case TabTimesheets:
		return CategoryTimesheet, true
	case TabIncidents:
		return CategoryIncident, true
	case TabTimeOff:
		return CategoryTimeOff, true
	case TabOvertime:
		return CategoryOvertime, true
	case TabFMLA:
		return CategoryFMLA, true
	}
	return "", false
}

// TabForCategory is the tab that lists records of category c.
func TabForCategory(c Category) (Tab, bool) {
	for _, t := range Tabs {
		if tc, ok := t.Category(); ok && tc == c {
			return t, true
		}
	}
	return 0, false
}

// PageSize is the number of rows per admin list page.
const PageSize = 10

// FetchRequest identifies one list fetch. Generation orders fetches of the
// same tab so a slow earlier response cannot overwrite a newer one.
type FetchRequest struct {
	Tab        Tab
	Generation uint64
	Range      DateRange
}

// AdminCache holds the admin console's per-tab collections, the active tab,
// the date range and the current page.
type AdminCache struct {
	active  Tab
	rng     DateRange
	page    int
	data    map[Tab][]Record
	gen     map[Tab]uint64
	loading map[Tab]bool
}

// NewAdminCache starts an admin session on the dashboard with the default
// date range.
func NewAdminCache(now time.Time) AdminCache {
	return AdminCache{
		active:  TabDashboard,
		rng:     DefaultDateRange(now),
		page:    1,
		data:    make(map[Tab][]Record),
		gen:     make(map[Tab]uint64),
		loading: make(map[Tab]bool),
	}
}

func (c AdminCache) Active() Tab        { return c.active }
func (c AdminCache) Range() DateRange   { return c.rng }
func (c AdminCache) Page() int          { return c.page }
func (c AdminCache) Loading(t Tab) bool { return c.loading[t] }
func (c AdminCache) Records(t Tab) []Record {
	return c.data[t]
}

// SelectTab activates t, resets pagination and returns the one fetch to
// issue for it.
func (c *AdminCache) SelectTab(t Tab) FetchRequest {
	c.active = t
	c.page = 1
	return c.begin(t)
}

// SetDateRange changes the bounds. When the active tab is date scoped the
// returned request must be issued right away.
func (c *AdminCache) SetDateRange(r DateRange) (FetchRequest, bool) {
	c.rng = r
	if !c.active.DateScoped() {
		return FetchRequest{}, false
	}
	return c.begin(c.active), true
}

// RefreshIfActive re-fetches t only when it is the active tab.
func (c *AdminCache) RefreshIfActive(t Tab) (FetchRequest, bool) {
	if t != c.active {
		return FetchRequest{}, false
	}
	return c.begin(t), true
}

// Refresh re-fetches the active tab.
func (c *AdminCache) Refresh() FetchRequest {
	return c.begin(c.active)
}

func (c *AdminCache) begin(t Tab) FetchRequest {
	c.gen[t]++
	c.loading[t] = true
	req := FetchRequest{Tab: t, Generation: c.gen[t]}
	if t.DateScoped() {
		req.Range = c.rng
	}
	return req
}

// Apply replaces the tab's collection with a fetch result. It returns false
// and changes nothing when a newer fetch for the tab has been issued since.
func (c *AdminCache) Apply(req FetchRequest, records []Record) bool {
	if req.Generation != c.gen[req.Tab] {
		return false
	}
	c.data[req.Tab] = records
	c.loading[req.Tab] = false
	if req.Tab == c.active {
		c.SetPage(c.page)
	}
	return true
}

// PageCount is ceil(total/PageSize) for the active tab.
func (c AdminCache) PageCount() int {
	n := len(c.data[c.active])
	return (n + PageSize - 1) / PageSize
}

// SetPage moves to page n, clamped to [1, PageCount].
func (c *AdminCache) SetPage(n int) {
	if last := c.PageCount(); n > last {
		n = last
	}
	if n < 1 {
		n = 1
	}
	c.page = n
}

func (c *AdminCache) NextPage() { c.SetPage(c.page + 1) }
func (c *AdminCache) PrevPage() { c.SetPage(c.page - 1) }

// PageRecords is the slice of the active tab's collection on the current
// page.
func (c AdminCache) PageRecords() []Record {
	all := c.data[c.active]
	start := (c.page - 1) * PageSize
	if start >= len(all) {
		return nil
	}
	end := start + PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// FetchTab loads the collection behind a fetch request.
func FetchTab(ctx context.Context, b Backend, req FetchRequest) ([]Record, error) {
	switch req.Tab {
	case TabDashboard:
		rows, err := b.ListActiveClockIns(ctx)
		return toRecords(rows), err
	case TabEmployees:
		rows, err := b.ListEmployees(ctx)
		return toRecords(rows), err
	case TabTimesheets:
		rows, err := b.ListTimesheets(ctx, req.Range)
		return toRecords(rows), err
	case TabDVI:
		rows, err := b.ListInspections(ctx, req.Range)
		return toRecords(rows), err
	case TabIncidents, TabTimeOff, TabOvertime, TabFMLA:
		cat, _ := req.Tab.Category()
		rows, err := b.ListRequests(ctx, cat, req.Range)
		return toRecords(rows), err
	case TabSafety:
		rows, err := b.ListSafetySchedules(ctx)
		return toRecords(rows), err
	}
	return nil, nil
}

func toRecords[T Record](rows []T) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
