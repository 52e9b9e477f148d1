package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/middleware"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/scheduling"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB     *gorm.DB
	Booker *scheduling.Booker
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, booker *scheduling.Booker) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Booker: booker}
}

// respondSchedulingError maps scheduling sentinel errors to HTTP responses.
// Pre-check conflicts and storage-constraint conflicts arrive as the same
// ErrSlotTaken, so clients see one uniform rejection either way.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrDoctorNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.BadRequest(c, "This time slot is no longer available")
	case errors.Is(err, scheduling.ErrNotAcceptingPatients),
		errors.Is(err, scheduling.ErrSlotInPast),
		errors.Is(err, scheduling.ErrInvalidTransition):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrForbidden):
		utils.Forbidden(c, err.Error())
	default:
		utils.InternalServerError(c, "Database error: "+err.Error())
	}
}

func actorFromContext(c *gin.Context) (scheduling.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return scheduling.Actor{}, false
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		return scheduling.Actor{}, false
	}
	return scheduling.Actor{ID: userID, Role: role}, true
}

// expandSet parses the ?expand= query into a lookup set. Reference expansion
// is opt-in so callers control the join cost of each read.
func expandSet(c *gin.Context) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(c.Query("expand"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			set[part] = true
		}
	}
	return set
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID string    `json:"doctorId" binding:"required,uuid"`
	DateTime time.Time `json:"dateTime" binding:"required"`
	Type     string    `json:"type" binding:"omitempty,oneof=in-person video phone"`
	Reason   string    `json:"reason" binding:"required"`
	Symptoms []string  `json:"symptoms"`
	Notes    string    `json:"notes"`
}

// CreateAppointment books a new appointment for the authenticated patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Booker.Create(c.Request.Context(), scheduling.CreateParams{
		PatientID: actor.ID,
		DoctorID:  req.DoctorID,
		DateTime:  req.DateTime,
		Type:      models.AppointmentType(req.Type),
		Reason:    req.Reason,
		Symptoms:  req.Symptoms,
		Notes:     req.Notes,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appt)
}

// GetAppointmentsForUser fetches appointments for the logged-in user.
// Patients see their own, doctors see theirs, admins see all.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	expand := expandSet(c)
	query := h.DB.WithContext(c.Request.Context()).Order("date_time asc")
	if expand["patient"] {
		query = query.Preload("Patient")
	}
	if expand["doctor"] {
		query = query.Preload("Doctor")
	}

	var appointments []models.Appointment
	var err error
	switch actor.Role {
	case models.RolePatient:
		err = query.Where("patient_id = ?", actor.ID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", actor.ID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment. Accessible by the involved
// patient, the involved doctor, or an admin. Doctor notes are only included
// with ?expand=doctorNotes and only for the doctor or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	expand := expandSet(c)
	query := h.DB.WithContext(c.Request.Context())
	if expand["patient"] {
		query = query.Preload("Patient")
	}
	if expand["doctor"] {
		query = query.Preload("Doctor")
	}

	var appointment models.Appointment
	if err := query.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	isPatientInvolved := actor.ID == appointment.PatientID
	isDoctorInvolved := actor.ID == appointment.DoctorID
	if actor.Role != models.RoleAdmin && !isPatientInvolved && !isDoctorInvolved {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	if expand["doctorNotes"] && (actor.Role == models.RoleAdmin || isDoctorInvolved) {
		utils.Success(c, "Appointment fetched successfully", appointment.Detail())
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentRequest represents the request body for a role-gated
// appointment update. Which fields take effect depends on the actor: a
// patient may only write notes (their own notes field); a doctor may change
// status, notes (the doctor notes field) and prescription.
type UpdateAppointmentRequest struct {
	Status       *string `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled no-show"`
	Notes        *string `json:"notes"`
	Prescription *string `json:"prescription"`
	Reason       string  `json:"reason"`
}

// UpdateAppointment applies a field update to an appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	params := scheduling.UpdateParams{
		Patient: scheduling.PatientUpdate{Notes: req.Notes},
		Doctor: scheduling.DoctorUpdate{
			Notes:              req.Notes,
			Prescription:       req.Prescription,
			CancellationReason: req.Reason,
		},
	}
	if req.Status != nil {
		status := models.AppointmentStatus(*req.Status)
		params.Doctor.Status = &status
	}

	appt, err := h.Booker.Update(c.Request.Context(), c.Param("id"), actor, params)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appt)
}

// CancelAppointmentRequest carries the optional cancellation reason.
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment soft-cancels an appointment on behalf of its patient.
// The record is kept for history; the slot becomes bookable again.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	// Body is optional on cancellation
	_ = c.ShouldBindJSON(&req)

	actor, ok := actorFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.Booker.Cancel(c.Request.Context(), c.Param("id"), actor, req.Reason); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", nil)
}
