package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// AppointmentType represents how the consultation takes place
type AppointmentType string

const (
	TypeInPerson AppointmentType = "in-person"
	TypeVideo    AppointmentType = "video"
	TypePhone    AppointmentType = "phone"
)

// CancelledBy records which party cancelled an appointment.
type CancelledBy string

const (
	CancelledByPatient CancelledBy = "patient"
	CancelledByDoctor  CancelledBy = "doctor"
	CancelledBySystem  CancelledBy = "system"
	CancelledByNone    CancelledBy = "none"
)

// StringList persists a []string as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Appointment represents a scheduled medical appointment. The slot key is a
// derived (doctor, dateTime) value held only while the appointment is active;
// its unique index is what prevents double booking under concurrent creates
// (MySQL unique indexes ignore NULL, so cancelled appointments free the slot).
type Appointment struct {
	BaseModel
	PatientID string    `gorm:"size:36;index" json:"patientId"`
	DoctorID  string    `gorm:"size:36;index" json:"doctorId"`
	DateTime  time.Time `json:"dateTime"`
	EndTime   time.Time `json:"endTime"`
	SlotKey   *string   `gorm:"size:64;uniqueIndex" json:"-"`

	Status   AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Type     AppointmentType   `gorm:"size:20;default:'in-person'" json:"type"`
	Reason   string            `gorm:"size:255" json:"reason"`
	Symptoms StringList        `gorm:"type:text" json:"symptoms"`

	PatientNotes string `gorm:"type:text" json:"patientNotes,omitempty"`
	DoctorNotes  string `gorm:"type:text" json:"-"` // opt-in via expansion, never in default reads
	Prescription string `gorm:"type:text" json:"prescription,omitempty"`

	// Fee snapshot taken from the doctor's profile at booking time.
	FeeAmount float64    `json:"feeAmount"`
	FeePaid   bool       `gorm:"default:false" json:"feePaid"`
	FeePaidAt *time.Time `json:"feePaidAt,omitempty"`

	CancelledBy        CancelledBy `gorm:"size:10;default:'none'" json:"cancelledBy"`
	CancellationReason string      `gorm:"size:255" json:"cancellationReason,omitempty"`

	// Relations (loaded only on explicit expansion)
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// SlotKeyFor builds the unique active-slot key for a doctor and start instant.
func SlotKeyFor(doctorID string, at time.Time) string {
	return doctorID + "@" + at.UTC().Format(time.RFC3339)
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsTerminal reports whether the appointment has reached a final status.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// AppointmentDetail is the expanded response shape that includes the doctor's
// private notes. Only returned to the appointment's doctor or an admin.
type AppointmentDetail struct {
	Appointment
	DoctorNotes string `json:"doctorNotes"`
}

// Detail wraps the appointment with its doctor notes exposed.
func (a *Appointment) Detail() AppointmentDetail {
	return AppointmentDetail{Appointment: *a, DoctorNotes: a.DoctorNotes}
}
