package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gkiprutongeno/MediReach-Appointment-System/internal/models"
)

// memStore is an in-memory Store for tests. It enforces the same active-slot
// uniqueness the MySQL index provides, under a mutex, so racing creates
// behave like concurrent inserts against the real constraint.
type memStore struct {
	mu       sync.Mutex
	doctors  map[string]*models.DoctorProfile
	appts    map[string]*models.Appointment
	slotKeys map[string]string // active slot key -> appointment id
}

func newMemStore() *memStore {
	return &memStore{
		doctors:  make(map[string]*models.DoctorProfile),
		appts:    make(map[string]*models.Appointment),
		slotKeys: make(map[string]string),
	}
}

func (s *memStore) addDoctor(profile *models.DoctorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[profile.UserID] = profile
}

func (s *memStore) DoctorByID(_ context.Context, doctorID string) (*models.DoctorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.doctors[doctorID]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *memStore) ActiveAppointmentAt(_ context.Context, doctorID string, at time.Time, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, appt := range s.appts {
		if appt.DoctorID == doctorID && appt.DateTime.Equal(at) &&
			appt.Status != models.StatusCancelled && appt.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ActiveStartTimes(_ context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var times []time.Time
	for _, appt := range s.appts {
		if appt.DoctorID == doctorID && appt.Status != models.StatusCancelled &&
			!appt.DateTime.Before(from) && appt.DateTime.Before(to) {
			times = append(times, appt.DateTime)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

func (s *memStore) AppointmentByID(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (s *memStore) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appt.SlotKey != nil {
		if _, taken := s.slotKeys[*appt.SlotKey]; taken {
			return ErrSlotTaken
		}
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	copied := *appt
	s.appts[appt.ID] = &copied
	if appt.SlotKey != nil {
		s.slotKeys[*appt.SlotKey] = appt.ID
	}
	return nil
}

func (s *memStore) SaveAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.appts[appt.ID]; ok && existing.SlotKey != nil {
		delete(s.slotKeys, *existing.SlotKey)
	}
	copied := *appt
	s.appts[appt.ID] = &copied
	if appt.SlotKey != nil {
		s.slotKeys[*appt.SlotKey] = appt.ID
	}
	return nil
}
