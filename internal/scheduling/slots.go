package scheduling

import (
	"time"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// Slot is a single bookable start instant plus its display form.
type Slot struct {
	DateTime  time.Time `json:"dateTime"`
	Formatted string    `json:"formatted"` // e.g. "2:00 PM"
}

// parseWindow resolves an "HH:MM" wall-clock pair onto the given calendar
// date. Malformed time strings yield ok=false; slot generation treats that
// the same as a disabled day rather than erroring.
func parseWindow(date time.Time, startHM, endHM string) (start, end time.Time, ok bool) {
	s, err := time.Parse("15:04", startHM)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, err := time.Parse("15:04", endHM)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	loc := date.Location()
	start = time.Date(date.Year(), date.Month(), date.Day(), s.Hour(), s.Minute(), 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(), e.Hour(), e.Minute(), 0, 0, loc)
	return start, end, true
}

// GenerateSlots expands a doctor's weekly availability template into the
// ordered candidate start times for one calendar date. Slots are emitted
// every SlotDuration minutes from the window start; a slot is only emitted
// when a full slot duration fits before the window end, so a trailing
// remainder window is silently unused. A disabled day, a malformed template
// entry or an inverted window all yield an empty sequence.
func GenerateSlots(date time.Time, profile *models.DoctorProfile) []time.Time {
	startHM, endHM, ok := profile.EnabledWindow(int(date.Weekday()))
	if !ok {
		return nil
	}

	start, end, ok := parseWindow(date, startHM, endHM)
	if !ok || !start.Before(end) {
		return nil
	}

	duration := time.Duration(profile.SlotDuration) * time.Minute
	if duration <= 0 {
		return nil
	}

	var slots []time.Time
	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		slots = append(slots, cur)
	}
	return slots
}

// FormatSlot renders a start instant as the short clock string shown to
// clients when listing availability.
func FormatSlot(at time.Time) string {
	return at.Format("3:04 PM")
}
