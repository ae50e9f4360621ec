package kiosk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(c Category, id int64) InsertEvent {
	return InsertEvent{Category: c, RecordID: id, EmployeeLabel: "Dana", At: time.Now()}
}

func TestNotificationsNewestFirstAndCapped(t *testing.T) {
	var l Notifications
	for i := int64(1); i <= 12; i++ {
		_, ok := l.Push(event(CategoryDVI, i))
		require.True(t, ok)
	}
	require.Equal(t, MaxNotifications, l.Len())
	assert.Equal(t, "dvi-12", l.Items()[0].ID)
	assert.Equal(t, "dvi-3", l.Items()[MaxNotifications-1].ID)
}

func TestNotificationsDeduplicate(t *testing.T) {
	var l Notifications
	_, ok := l.Push(event(CategoryTimeOff, 5))
	require.True(t, ok)
	_, ok = l.Push(event(CategoryTimeOff, 5))
	assert.False(t, ok)
	_, ok = l.Push(event(CategoryOvertime, 5))
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestNotificationExpireAfterDismissIsNoop(t *testing.T) {
	var l Notifications
	first, _ := l.Push(event(CategoryFMLA, 1))
	l.Push(event(CategoryFMLA, 2))

	require.True(t, l.Dismiss(first.ID))
	assert.False(t, l.Expire(first.ID, first.Seq()))
	assert.Equal(t, 1, l.Len())

	// A new showing of the same record is not removed by the old timer.
	again, ok := l.Push(event(CategoryFMLA, 1))
	require.True(t, ok)
	assert.False(t, l.Expire(first.ID, first.Seq()))
	assert.True(t, l.Expire(again.ID, again.Seq()))
	assert.Equal(t, 1, l.Len())
}

func TestNotificationDismissUnknown(t *testing.T) {
	var l Notifications
	assert.False(t, l.Dismiss("dvi-1"))
	l.Push(event(CategoryDVI, 1))
	l.Clear()
	assert.Equal(t, 0, l.Len())
}
