package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// Store is the persistence surface the scheduling core depends on. Handlers
// wire the GORM-backed implementation; tests substitute an in-memory fake.
type Store interface {
	// DoctorByID loads a doctor's profile with its availability template.
	// Returns ErrDoctorNotFound when absent.
	DoctorByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error)

	// ActiveAppointmentAt reports whether a non-cancelled appointment exists
	// for the doctor at exactly the given instant. excludeID, when non-empty,
	// ignores that appointment (used when re-validating an update).
	ActiveAppointmentAt(ctx context.Context, doctorID string, at time.Time, excludeID string) (bool, error)

	// ActiveStartTimes returns the start instants of all non-cancelled
	// appointments for the doctor within [from, to).
	ActiveStartTimes(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error)

	// AppointmentByID returns ErrAppointmentNotFound when absent.
	AppointmentByID(ctx context.Context, id string) (*models.Appointment, error)

	// CreateAppointment persists a new appointment. A unique-constraint
	// violation on the active slot key is returned as ErrSlotTaken.
	CreateAppointment(ctx context.Context, appt *models.Appointment) error

	// SaveAppointment persists mutations to an existing appointment.
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
}

// GormStore implements Store on a *gorm.DB (MySQL).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GORM-backed Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DoctorByID(ctx context.Context, doctorID string) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	err := s.db.WithContext(ctx).
		Preload("Availability").
		First(&profile, "user_id = ?", doctorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *GormStore) ActiveAppointmentAt(ctx context.Context, doctorID string, at time.Time, excludeID string) (bool, error) {
	query := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date_time = ? AND status <> ?", doctorID, at, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) ActiveStartTimes(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status <> ? AND date_time >= ? AND date_time < ?",
			doctorID, models.StatusCancelled, from, to).
		Order("date_time asc").
		Pluck("date_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (s *GormStore) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if err := s.db.WithContext(ctx).Create(appt).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (s *GormStore) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return s.db.WithContext(ctx).Save(appt).Error
}

// isDuplicateKey recognizes a unique-index violation either through GORM's
// translated error or the raw MySQL error 1062.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
