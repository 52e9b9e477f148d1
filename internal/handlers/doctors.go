package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/middleware"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/scheduling"
	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/utils"
)

// DoctorHandler handles doctor profile and availability requests.
type DoctorHandler struct {
	DB     *gorm.DB
	Booker *scheduling.Booker
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, booker *scheduling.Booker) *DoctorHandler {
	return &DoctorHandler{DB: db, Booker: booker}
}

// GetDoctors fetches all users with the doctor role, including their
// profiles. Accessible to all authenticated users for booking.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	err := h.DB.WithContext(c.Request.Context()).
		Preload("DoctorProfile").
		Preload("DoctorProfile.Availability").
		Where("role = ?", models.RoleDoctor).
		Find(&doctors).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, doctor := range doctors {
		sanitized[i] = doctor.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// GetDoctorByID fetches a single doctor with profile and availability.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	var doctor models.User
	err := h.DB.WithContext(c.Request.Context()).
		Preload("DoctorProfile").
		Preload("DoctorProfile.Availability").
		Where("role = ?", models.RoleDoctor).
		First(&doctor, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Doctor fetched successfully", doctor.Sanitize())
}

// AvailabilityEntry is one weekday window in a profile update.
type AvailabilityEntry struct {
	DayOfWeek   int    `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsAvailable bool   `json:"isAvailable"`
}

// UpdateDoctorProfileRequest represents the request body for a doctor
// updating their own profile. When Availability is present it replaces the
// whole weekly template.
type UpdateDoctorProfileRequest struct {
	Specialization       *string             `json:"specialization"`
	Bio                  *string             `json:"bio"`
	SlotDuration         *int                `json:"slotDuration" binding:"omitempty,oneof=15 30 45 60"`
	ConsultationFee      *float64            `json:"consultationFee" binding:"omitempty,gte=0"`
	AcceptingNewPatients *bool               `json:"acceptingNewPatients"`
	Availability         []AvailabilityEntry `json:"availability" binding:"omitempty,dive"`
}

// validateAvailability rejects malformed templates at write time: times must
// parse as "HH:MM", an enabled window must have start < end, and a weekday
// may carry at most one enabled entry.
func validateAvailability(entries []AvailabilityEntry) error {
	enabledDays := make(map[int]bool)
	for _, entry := range entries {
		start, err := time.Parse("15:04", entry.StartTime)
		if err != nil {
			return fmt.Errorf("invalid startTime %q, expected HH:MM", entry.StartTime)
		}
		end, err := time.Parse("15:04", entry.EndTime)
		if err != nil {
			return fmt.Errorf("invalid endTime %q, expected HH:MM", entry.EndTime)
		}
		if !entry.IsAvailable {
			continue
		}
		if !start.Before(end) {
			return fmt.Errorf("startTime %s must be before endTime %s", entry.StartTime, entry.EndTime)
		}
		if enabledDays[entry.DayOfWeek] {
			return fmt.Errorf("duplicate enabled entry for day %d", entry.DayOfWeek)
		}
		enabledDays[entry.DayOfWeek] = true
	}
	return nil
}

// UpdateDoctorProfile upserts the authenticated doctor's profile.
func (h *DoctorHandler) UpdateDoctorProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateDoctorProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Availability != nil {
		if err := validateAvailability(req.Availability); err != nil {
			utils.BadRequest(c, "Invalid availability template: "+err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	var profile models.DoctorProfile
	err := h.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.DoctorProfile{UserID: userID, SlotDuration: 30, AcceptingNewPatients: true}
		err = h.DB.WithContext(ctx).Create(&profile).Error
	}
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	if req.Specialization != nil {
		profile.Specialization = *req.Specialization
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.SlotDuration != nil {
		profile.SlotDuration = *req.SlotDuration
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.AcceptingNewPatients != nil {
		profile.AcceptingNewPatients = *req.AcceptingNewPatients
	}

	if err := h.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	if req.Availability != nil {
		if err := h.replaceAvailability(c, &profile, req.Availability); err != nil {
			utils.InternalServerError(c, "Failed to update availability: "+err.Error())
			return
		}
	}

	// Reload with the template for the response
	if err := h.DB.WithContext(ctx).Preload("Availability").First(&profile, "id = ?", profile.ID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	utils.Success(c, "Doctor profile updated successfully", profile)
}

func (h *DoctorHandler) replaceAvailability(c *gin.Context, profile *models.DoctorProfile, entries []AvailabilityEntry) error {
	return h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_profile_id = ?", profile.ID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		for _, entry := range entries {
			slot := models.AvailabilitySlot{
				DoctorProfileID: profile.ID,
				DayOfWeek:       entry.DayOfWeek,
				StartTime:       entry.StartTime,
				EndTime:         entry.EndTime,
				IsAvailable:     entry.IsAvailable,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDoctorSlots fetches the available slots for a doctor on a given date.
// Taken and past slots are filtered out; an empty list is a normal result.
func (h *DoctorHandler) GetDoctorSlots(c *gin.Context) {
	dateStr := c.Query("date")
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		utils.BadRequest(c, "Invalid or missing date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.Booker.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", slots)
}
