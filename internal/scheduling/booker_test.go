package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

func newTestBooker(store Store, now time.Time) *Booker {
	b := NewBooker(store, zerolog.Nop())
	b.now = func() time.Time { return now }
	return b
}

func TestAvailableSlots_FiltersTakenAndPast(t *testing.T) {
	store := newMemStore()
	store.addDoctor(doctorWithWindow(1, "09:00", "11:00", 30))

	// 09:30 is already booked
	key := models.SlotKeyFor("doc-1", mondayDate.Add(9*time.Hour+30*time.Minute))
	require.NoError(t, store.CreateAppointment(context.Background(), &models.Appointment{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		DateTime:  mondayDate.Add(9*time.Hour + 30*time.Minute),
		Status:    models.StatusPending,
		SlotKey:   &key,
	}))

	// "now" is 09:10, so the 09:00 slot is in the past
	booker := newTestBooker(store, mondayDate.Add(9*time.Hour+10*time.Minute))

	slots, err := booker.AvailableSlots(context.Background(), "doc-1", mondayDate)
	require.NoError(t, err)

	starts := make([]time.Time, len(slots))
	for i, s := range slots {
		starts[i] = s.DateTime
	}
	assert.Equal(t, []time.Time{
		mondayDate.Add(10 * time.Hour),
		mondayDate.Add(10*time.Hour + 30*time.Minute),
	}, starts)
	assert.Equal(t, "10:00 AM", slots[0].Formatted)
}

func TestAvailableSlots_SlotAtNowExcluded(t *testing.T) {
	store := newMemStore()
	store.addDoctor(doctorWithWindow(1, "09:00", "10:00", 30))

	booker := newTestBooker(store, mondayDate.Add(9*time.Hour))

	slots, err := booker.AvailableSlots(context.Background(), "doc-1", mondayDate)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, mondayDate.Add(9*time.Hour+30*time.Minute), slots[0].DateTime)
}

func TestAvailableSlots_NoAvailability(t *testing.T) {
	store := newMemStore()
	store.addDoctor(doctorWithWindow(3, "09:00", "17:00", 30))

	booker := newTestBooker(store, mondayDate)

	slots, err := booker.AvailableSlots(context.Background(), "doc-1", mondayDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_UnknownDoctor(t *testing.T) {
	booker := newTestBooker(newMemStore(), mondayDate)

	_, err := booker.AvailableSlots(context.Background(), "nobody", mondayDate)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestIsSlotAvailable(t *testing.T) {
	store := newMemStore()
	store.addDoctor(doctorWithWindow(1, "09:00", "17:00", 30))
	booker := newTestBooker(store, mondayDate)

	at := mondayDate.Add(9 * time.Hour)
	free, err := booker.IsSlotAvailable(context.Background(), "doc-1", at, "")
	require.NoError(t, err)
	assert.True(t, free)

	key := models.SlotKeyFor("doc-1", at)
	appt := &models.Appointment{
		ID: "appt-1", DoctorID: "doc-1", PatientID: "pat-1",
		DateTime: at, Status: models.StatusPending, SlotKey: &key,
	}
	require.NoError(t, store.CreateAppointment(context.Background(), appt))

	free, err = booker.IsSlotAvailable(context.Background(), "doc-1", at, "")
	require.NoError(t, err)
	assert.False(t, free)

	// Idempotence: a second read with no intervening write agrees
	again, err := booker.IsSlotAvailable(context.Background(), "doc-1", at, "")
	require.NoError(t, err)
	assert.Equal(t, free, again)

	// Excluding the occupying appointment reports the slot free
	free, err = booker.IsSlotAvailable(context.Background(), "doc-1", at, "appt-1")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestIsSlotAvailable_CancelledDoesNotBlock(t *testing.T) {
	store := newMemStore()
	at := mondayDate.Add(9 * time.Hour)
	require.NoError(t, store.CreateAppointment(context.Background(), &models.Appointment{
		ID: "appt-1", DoctorID: "doc-1", PatientID: "pat-1",
		DateTime: at, Status: models.StatusCancelled,
	}))

	booker := newTestBooker(store, mondayDate)
	free, err := booker.IsSlotAvailable(context.Background(), "doc-1", at, "")
	require.NoError(t, err)
	assert.True(t, free)
}
