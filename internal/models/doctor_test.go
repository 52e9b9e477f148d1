package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledWindow(t *testing.T) {
	profile := DoctorProfile{
		Availability: []AvailabilitySlot{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
			{DayOfWeek: 2, StartTime: "10:00", EndTime: "14:00", IsAvailable: false},
		},
	}

	start, end, ok := profile.EnabledWindow(1)
	require.True(t, ok)
	assert.Equal(t, "09:00", start)
	assert.Equal(t, "17:00", end)

	// Disabled entry behaves like an absent one
	_, _, ok = profile.EnabledWindow(2)
	assert.False(t, ok)

	// No entry at all
	_, _, ok = profile.EnabledWindow(5)
	assert.False(t, ok)
}

func TestValidSlotDuration(t *testing.T) {
	for _, d := range SlotDurations {
		assert.True(t, ValidSlotDuration(d))
	}
	assert.False(t, ValidSlotDuration(0))
	assert.False(t, ValidSlotDuration(20))
	assert.False(t, ValidSlotDuration(90))
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"headache", "fever"}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	var empty StringList
	require.NoError(t, empty.Scan("[]"))
	assert.Empty(t, empty)
}

func TestAppointmentStatusHelpers(t *testing.T) {
	appt := Appointment{Status: StatusPending}
	assert.True(t, appt.IsActive())
	assert.False(t, appt.IsTerminal())

	appt.Status = StatusCancelled
	assert.False(t, appt.IsActive())
	assert.True(t, appt.IsTerminal())

	appt.Status = StatusNoShow
	assert.True(t, appt.IsActive()) // no-show still occupies its slot
	assert.True(t, appt.IsTerminal())
}
