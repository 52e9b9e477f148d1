package scheduling

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// Actor is the authenticated identity performing a scheduling operation,
// passed explicitly rather than read from ambient request state.
type Actor struct {
	ID   string
	Role models.Role
}

// Booker owns slot availability checks and the appointment lifecycle.
type Booker struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewBooker constructs a Booker over the given store.
func NewBooker(store Store, logger zerolog.Logger) *Booker {
	return &Booker{
		store:  store,
		logger: logger.With().Str("component", "booker").Logger(),
		now:    time.Now,
	}
}

// AvailableSlots generates the candidate slots for the doctor on the given
// date and removes the ones already taken by an active appointment as well
// as any slot at or before the current instant. Both filters are pure reads;
// the returned list is ordered ascending. A doctor with no enabled window on
// that weekday yields an empty list, not an error.
func (b *Booker) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]Slot, error) {
	profile, err := b.store.DoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	candidates := GenerateSlots(date, profile)
	if len(candidates) == 0 {
		return []Slot{}, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	taken, err := b.store.ActiveStartTimes(ctx, doctorID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	takenSet := make(map[int64]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t.Unix()] = struct{}{}
	}

	now := b.now()
	available := make([]Slot, 0, len(candidates))
	for _, start := range candidates {
		if !start.After(now) {
			continue
		}
		if _, booked := takenSet[start.Unix()]; booked {
			continue
		}
		available = append(available, Slot{DateTime: start, Formatted: FormatSlot(start)})
	}
	return available, nil
}

// IsSlotAvailable reports whether no non-cancelled appointment exists for the
// doctor at exactly the given instant. excludeID lets an update keep its own
// slot while re-validating. Equality is exact-instant: only grid-aligned
// candidates are ever produced, so overlap checks are unnecessary.
func (b *Booker) IsSlotAvailable(ctx context.Context, doctorID string, at time.Time, excludeID string) (bool, error) {
	occupied, err := b.store.ActiveAppointmentAt(ctx, doctorID, at, excludeID)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}
