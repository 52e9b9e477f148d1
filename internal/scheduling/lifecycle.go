package scheduling

import (
	"context"
	"time"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// CreateParams carries the patient-supplied fields for booking.
type CreateParams struct {
	PatientID string
	DoctorID  string
	DateTime  time.Time
	Type      models.AppointmentType
	Reason    string
	Symptoms  []string
	Notes     string
}

// PatientUpdate is the allow-listed set of fields a patient may change on
// their own appointment.
type PatientUpdate struct {
	Notes *string
}

// DoctorUpdate is the allow-listed set of fields the appointment's doctor
// (or an admin) may change. Cancelling through Status additionally records
// who cancelled and why.
type DoctorUpdate struct {
	Status             *models.AppointmentStatus
	Notes              *string
	Prescription       *string
	CancellationReason string
}

// UpdateParams bundles the per-role field updates for one call; only the
// struct matching the actor's role is consulted.
type UpdateParams struct {
	Patient PatientUpdate
	Doctor  DoctorUpdate
}

// validTransitions is the one-directional status machine. completed,
// cancelled and no-show are terminal.
var validTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
}

func canTransition(from, to models.AppointmentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Create books a new appointment. The doctor must exist and be accepting new
// patients, and the slot must be in the future and free. The availability
// pre-check gives a fast, clear rejection but is not atomic with the insert;
// the unique active-slot constraint is the race-safety backstop, and a
// constraint rejection surfaces as the same ErrSlotTaken. On success the end
// time and fee are snapshotted from the doctor's current profile.
func (b *Booker) Create(ctx context.Context, params CreateParams) (*models.Appointment, error) {
	profile, err := b.store.DoctorByID(ctx, params.DoctorID)
	if err != nil {
		return nil, err
	}
	if !profile.AcceptingNewPatients {
		return nil, ErrNotAcceptingPatients
	}
	if !params.DateTime.After(b.now()) {
		return nil, ErrSlotInPast
	}

	free, err := b.IsSlotAvailable(ctx, params.DoctorID, params.DateTime, "")
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrSlotTaken
	}

	apptType := params.Type
	if apptType == "" {
		apptType = models.TypeInPerson
	}

	slotKey := models.SlotKeyFor(params.DoctorID, params.DateTime)
	appt := &models.Appointment{
		PatientID:    params.PatientID,
		DoctorID:     params.DoctorID,
		DateTime:     params.DateTime,
		EndTime:      params.DateTime.Add(time.Duration(profile.SlotDuration) * time.Minute),
		SlotKey:      &slotKey,
		Status:       models.StatusPending,
		Type:         apptType,
		Reason:       params.Reason,
		Symptoms:     params.Symptoms,
		PatientNotes: params.Notes,
		FeeAmount:    profile.ConsultationFee,
		CancelledBy:  models.CancelledByNone,
	}

	if err := b.store.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("appointment_id", appt.ID).
		Str("doctor_id", appt.DoctorID).
		Str("patient_id", appt.PatientID).
		Time("date_time", appt.DateTime).
		Msg("appointment booked")
	return appt, nil
}

// Update applies a role-gated field mutation. The actor must be the patient
// on the appointment, the doctor on the appointment, or an admin. Patients
// may only write their own notes; doctors (and admins) may advance status,
// write doctor notes and prescriptions. Status changes must follow the
// transition machine; setting cancelled records the cancelling party.
func (b *Booker) Update(ctx context.Context, appointmentID string, actor Actor, params UpdateParams) (*models.Appointment, error) {
	appt, err := b.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	isPatient := actor.Role == models.RolePatient && actor.ID == appt.PatientID
	isDoctor := actor.Role == models.RoleDoctor && actor.ID == appt.DoctorID
	isAdmin := actor.Role == models.RoleAdmin
	if !isPatient && !isDoctor && !isAdmin {
		return nil, ErrForbidden
	}

	switch {
	case isPatient:
		if params.Patient.Notes != nil {
			appt.PatientNotes = *params.Patient.Notes
		}
	default: // doctor on the appointment, or admin
		upd := params.Doctor
		if upd.Status != nil {
			if !canTransition(appt.Status, *upd.Status) {
				return nil, ErrInvalidTransition
			}
			appt.Status = *upd.Status
			if *upd.Status == models.StatusCancelled {
				b.markCancelled(appt, cancelledByRole(actor.Role), upd.CancellationReason)
			}
		}
		if upd.Notes != nil {
			appt.DoctorNotes = *upd.Notes
		}
		if upd.Prescription != nil {
			appt.Prescription = *upd.Prescription
		}
	}

	if err := b.store.SaveAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel soft-cancels an appointment on behalf of its patient. Only the
// owning patient or an admin may use this path; the record is kept for
// history and its slot key is released so the slot can be rebooked.
func (b *Booker) Cancel(ctx context.Context, appointmentID string, actor Actor, reason string) error {
	appt, err := b.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	isOwner := actor.Role == models.RolePatient && actor.ID == appt.PatientID
	if !isOwner && actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if !canTransition(appt.Status, models.StatusCancelled) {
		return ErrInvalidTransition
	}

	if reason == "" {
		reason = "Cancelled by patient"
	}
	appt.Status = models.StatusCancelled
	b.markCancelled(appt, models.CancelledByPatient, reason)

	if err := b.store.SaveAppointment(ctx, appt); err != nil {
		return err
	}

	b.logger.Info().
		Str("appointment_id", appt.ID).
		Str("doctor_id", appt.DoctorID).
		Msg("appointment cancelled")
	return nil
}

// markCancelled records the cancelling party and frees the active-slot key
// so the uniqueness constraint no longer reserves the slot.
func (b *Booker) markCancelled(appt *models.Appointment, by models.CancelledBy, reason string) {
	appt.CancelledBy = by
	if reason != "" {
		appt.CancellationReason = reason
	}
	appt.SlotKey = nil
}

func cancelledByRole(role models.Role) models.CancelledBy {
	switch role {
	case models.RoleDoctor:
		return models.CancelledByDoctor
	case models.RoleAdmin:
		return models.CancelledBySystem
	default:
		return models.CancelledByPatient
	}
}
