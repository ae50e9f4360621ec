package kiosk

import (
	"fmt"
	"time"
)

// Notification limits.
const (
	MaxNotifications       = 10
	DefaultNotificationTTL = 15 * time.Second
)

// Notification announces a record inserted while the admin console is open.
type Notification struct {
	ID            string // "{category}-{recordId}"
	Kind          Category
	EmployeeLabel string
	Timestamp     time.Time
	RecordID      int64

	// seq identifies this particular showing of ID so a pending expiry for
	// an earlier showing cannot remove it.
	seq uint64
}

func (n Notification) Seq() uint64 { return n.seq }

func NotificationID(c Category, recordID int64) string {
	return fmt.Sprintf("%s-%d", c, recordID)
}

// Notifications is the newest-first list of live notifications.
type Notifications struct {
	items []Notification
	seq   uint64
}

// Push adds a notification for ev unless one with the same id is already
// showing. The oldest entries beyond MaxNotifications are dropped.
func (l *Notifications) Push(ev InsertEvent) (Notification, bool) {
	id := NotificationID(ev.Category, ev.RecordID)
	for _, n := range l.items {
		if n.ID == id {
			return Notification{}, false
		}
	}
	l.seq++
	n := Notification{
		ID:            id,
		Kind:          ev.Category,
		EmployeeLabel: ev.EmployeeLabel,
		Timestamp:     ev.At,
		RecordID:      ev.RecordID,
		seq:           l.seq,
	}
	items := make([]Notification, 0, len(l.items)+1)
	items = append(items, n)
	items = append(items, l.items...)
	if len(items) > MaxNotifications {
		items = items[:MaxNotifications]
	}
	l.items = items
	return n, true
}

// Dismiss removes the notification with the given id. It reports whether
// anything was removed.
func (l *Notifications) Dismiss(id string) bool {
	for i, n := range l.items {
		if n.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Expire is the auto-dismiss path: it removes id only if the showing that
// scheduled the expiry (seq) is still present. Any earlier dismissal makes
// this a no-op.
func (l *Notifications) Expire(id string, seq uint64) bool {
	for i, n := range l.items {
		if n.ID == id && n.seq == seq {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l Notifications) Items() []Notification { return l.items }
func (l Notifications) Len() int              { return len(l.items) }

func (l *Notifications) Clear() { l.items = nil }
