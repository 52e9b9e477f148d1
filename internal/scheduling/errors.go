package scheduling

import "errors"

// Sentinel errors returned by the scheduling core. Handlers match these with
// errors.Is to pick the HTTP response; both the availability pre-check and
// the storage unique-constraint rejection surface as ErrSlotTaken so callers
// see a single conflict kind.
var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrNotAcceptingPatients = errors.New("doctor is not accepting new patients")
	ErrSlotTaken            = errors.New("time slot is already booked")
	ErrSlotInPast           = errors.New("time slot is in the past")
	ErrForbidden            = errors.New("actor is not authorized for this operation")
	ErrInvalidTransition    = errors.New("invalid appointment status transition")
)
