package models

// SlotDurations lists the allowed appointment lengths in minutes.
var SlotDurations = []int{15, 30, 45, 60}

// DoctorProfile holds the bookable configuration for a doctor user.
type DoctorProfile struct {
	BaseModel
	UserID               string  `gorm:"size:36;uniqueIndex" json:"userId"`
	Specialization       string  `gorm:"size:100" json:"specialization"`
	Bio                  string  `gorm:"type:text" json:"bio,omitempty"`
	SlotDuration         int     `gorm:"default:30" json:"slotDuration"`
	ConsultationFee      float64 `json:"consultationFee"`
	AcceptingNewPatients bool    `gorm:"default:true" json:"acceptingNewPatients"`

	Availability []AvailabilitySlot `gorm:"foreignKey:DoctorProfileID" json:"availability,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// AvailabilitySlot is one entry of a doctor's weekly recurring schedule.
// Times are wall-clock "HH:MM" strings; no timezone conversion is applied.
type AvailabilitySlot struct {
	BaseModel
	DoctorProfileID string `gorm:"size:36;index" json:"-"`
	DayOfWeek       int    `json:"dayOfWeek"` // 0 = Sunday
	StartTime       string `gorm:"size:5" json:"startTime"`
	EndTime         string `gorm:"size:5" json:"endTime"`
	IsAvailable     bool   `gorm:"default:true" json:"isAvailable"`
}

// EnabledWindow returns the enabled (startTime, endTime) window for the given
// weekday, or ok=false when the day has no enabled entry. Well-formedness of
// the time strings is the template writer's responsibility.
func (p *DoctorProfile) EnabledWindow(dayOfWeek int) (start, end string, ok bool) {
	for _, slot := range p.Availability {
		if slot.DayOfWeek == dayOfWeek && slot.IsAvailable {
			return slot.StartTime, slot.EndTime, true
		}
	}
	return "", "", false
}

// ValidSlotDuration reports whether d is one of the allowed slot lengths.
func ValidSlotDuration(d int) bool {
	for _, allowed := range SlotDurations {
		if d == allowed {
			return true
		}
	}
	return false
}
