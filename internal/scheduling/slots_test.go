package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// mondayDate is a Monday used throughout the slot tests.
var mondayDate = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func doctorWithWindow(day int, start, end string, slotDuration int) *models.DoctorProfile {
	return &models.DoctorProfile{
		UserID:               "doc-1",
		SlotDuration:         slotDuration,
		AcceptingNewPatients: true,
		ConsultationFee:      150,
		Availability: []models.AvailabilitySlot{
			{DayOfWeek: day, StartTime: start, EndTime: end, IsAvailable: true},
		},
	}
}

func TestGenerateSlots_MondayWindow(t *testing.T) {
	doc := doctorWithWindow(1, "09:00", "10:00", 30)

	slots := GenerateSlots(mondayDate, doc)

	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC), slots[1])
}

func TestGenerateSlots_CountAndSpacing(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		duration int
		want     int
	}{
		{"even division", "09:00", "17:00", 30, 16},
		{"trailing remainder dropped", "09:00", "10:50", 30, 3},
		{"window shorter than slot", "09:00", "09:20", 30, 0},
		{"hour slots", "08:00", "12:00", 60, 4},
		{"quarter hour", "09:00", "10:00", 15, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := doctorWithWindow(1, tc.start, tc.end, tc.duration)
			slots := GenerateSlots(mondayDate, doc)
			require.Len(t, slots, tc.want)

			step := time.Duration(tc.duration) * time.Minute
			for i := 1; i < len(slots); i++ {
				assert.Equal(t, step, slots[i].Sub(slots[i-1]))
			}
			if len(slots) > 0 {
				_, end, ok := parseWindow(mondayDate, tc.start, tc.end)
				require.True(t, ok)
				last := slots[len(slots)-1]
				assert.False(t, last.Add(step).After(end), "last slot must fit before window end")
			}
		})
	}
}

func TestGenerateSlots_NoWindowForWeekday(t *testing.T) {
	doc := doctorWithWindow(3, "09:00", "17:00", 30) // Wednesday only

	assert.Empty(t, GenerateSlots(mondayDate, doc))
}

func TestGenerateSlots_DisabledDay(t *testing.T) {
	doc := doctorWithWindow(1, "09:00", "17:00", 30)
	doc.Availability[0].IsAvailable = false

	assert.Empty(t, GenerateSlots(mondayDate, doc))
}

func TestGenerateSlots_InvertedWindow(t *testing.T) {
	assert.Empty(t, GenerateSlots(mondayDate, doctorWithWindow(1, "17:00", "09:00", 30)))
	assert.Empty(t, GenerateSlots(mondayDate, doctorWithWindow(1, "09:00", "09:00", 30)))
}

func TestGenerateSlots_MalformedTimes(t *testing.T) {
	assert.Empty(t, GenerateSlots(mondayDate, doctorWithWindow(1, "9am", "17:00", 30)))
	assert.Empty(t, GenerateSlots(mondayDate, doctorWithWindow(1, "09:00", "25:99", 30)))
}

func TestGenerateSlots_ZeroDuration(t *testing.T) {
	assert.Empty(t, GenerateSlots(mondayDate, doctorWithWindow(1, "09:00", "17:00", 0)))
}

func TestFormatSlot(t *testing.T) {
	assert.Equal(t, "2:00 PM", FormatSlot(time.Date(2025, time.June, 2, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, "9:30 AM", FormatSlot(time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)))
}
