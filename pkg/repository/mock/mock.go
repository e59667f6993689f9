// Package mock provides an in-memory repository.Store used as a test double
// by the service and HTTP tests. It is never wired into the production server.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/techstaff/pkg/apperr"
	"github.com/garnizeh/techstaff/pkg/models"
	"github.com/garnizeh/techstaff/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

type entry[T any] struct {
	seq int64
	rec T
}

// Store keeps every collection in maps guarded by one mutex. Setting Err makes
// every subsequent call fail as if the backend were unreachable.
type Store struct {
	mu           sync.Mutex
	seq          int64
	missions     map[string]entry[models.Mission]
	applications map[string]entry[models.Application]
	technicians  map[string]entry[models.Technician]
	users        map[string]entry[models.User]

	Err error
	Now func() time.Time
}

func New() *Store {
	return &Store{
		missions:     make(map[string]entry[models.Mission]),
		applications: make(map[string]entry[models.Application]),
		technicians:  make(map[string]entry[models.Technician]),
		users:        make(map[string]entry[models.User]),
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) now() time.Time {
	return s.Now().Truncate(time.Microsecond)
}

func (s *Store) fail(op string) error {
	if s.Err != nil {
		return apperr.Unavailable(op, s.Err)
	}
	return nil
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail("ping")
}

// newestFirst sorts by created time then insertion order, both descending.
func newestFirst[T any](entries []entry[T], created func(T) time.Time) []T {
	sort.Slice(entries, func(i, j int) bool {
		ci, cj := created(entries[i].rec), created(entries[j].rec)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return entries[i].seq > entries[j].seq
	})
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

// Missions

func (s *Store) ListMissions(ctx context.Context, q repository.MissionQuery) ([]models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list missions"); err != nil {
		return nil, err
	}
	var matched []entry[models.Mission]
	for _, e := range s.missions {
		if q.Status != "" && e.rec.Status != q.Status {
			continue
		}
		if q.RecruiterID != "" && e.rec.RecruiterID != q.RecruiterID {
			continue
		}
		matched = append(matched, e)
	}
	return newestFirst(matched, func(m models.Mission) time.Time { return m.CreatedAt }), nil
}

func (s *Store) GetMission(ctx context.Context, id string) (*models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get mission"); err != nil {
		return nil, err
	}
	e, ok := s.missions[id]
	if !ok {
		return nil, apperr.NotFound("mission", id)
	}
	m := e.rec
	return &m, nil
}

func (s *Store) InsertMission(ctx context.Context, m *models.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert mission"); err != nil {
		return err
	}
	t := s.now()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = t, t
	s.missions[m.ID] = entry[models.Mission]{seq: s.next(), rec: *m}
	return nil
}

func (s *Store) UpdateMission(ctx context.Context, m *models.Mission, from models.MissionStatus) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("update mission"); err != nil {
		return err
	}
	e, ok := s.missions[m.ID]
	if !ok {
		return apperr.NotFound("mission", m.ID)
	}
	if e.rec.Status != from {
		return apperr.Newf(apperr.KindInvalidTransition, "mission %q is no longer %s", m.ID, from)
	}
	m.CreatedAt = e.rec.CreatedAt
	m.UpdatedAt = s.now()
	e.rec = *m
	s.missions[m.ID] = e
	return nil
}

func (s *Store) DeleteMission(ctx context.Context, id string) (*models.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete mission"); err != nil {
		return nil, err
	}
	e, ok := s.missions[id]
	if !ok {
		return nil, apperr.NotFound("mission", id)
	}
	delete(s.missions, id)
	for aid, a := range s.applications {
		if a.rec.MissionID == id {
			delete(s.applications, aid)
		}
	}
	m := e.rec
	return &m, nil
}

// Applications

func (s *Store) ListApplications(ctx context.Context, q repository.ApplicationQuery) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list applications"); err != nil {
		return nil, err
	}
	var matched []entry[models.Application]
	for _, e := range s.applications {
		if q.MissionID != "" && e.rec.MissionID != q.MissionID {
			continue
		}
		if q.ApplicantID != "" && e.rec.ApplicantID != q.ApplicantID {
			continue
		}
		matched = append(matched, e)
	}
	return newestFirst(matched, func(a models.Application) time.Time { return a.CreatedAt }), nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get application"); err != nil {
		return nil, err
	}
	e, ok := s.applications[id]
	if !ok {
		return nil, apperr.NotFound("application", id)
	}
	a := e.rec
	return &a, nil
}

func (s *Store) InsertApplication(ctx context.Context, a *models.Application) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert application"); err != nil {
		return err
	}
	if _, ok := s.missions[a.MissionID]; !ok {
		return apperr.NotFound("mission", a.MissionID)
	}
	t := s.now()
	a.ID = uuid.NewString()
	a.CreatedAt, a.UpdatedAt = t, t
	s.applications[a.ID] = entry[models.Application]{seq: s.next(), rec: *a}
	return nil
}

func (s *Store) DecideApplication(ctx context.Context, id string, to models.ApplicationStatus) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("decide application"); err != nil {
		return nil, err
	}
	e, ok := s.applications[id]
	if !ok {
		return nil, apperr.NotFound("application", id)
	}
	if e.rec.Status != models.ApplicationPending {
		return nil, apperr.Newf(apperr.KindInvalidTransition, "application %q is already %s", id, e.rec.Status)
	}
	e.rec.Status = to
	e.rec.UpdatedAt = s.now()
	s.applications[id] = e
	a := e.rec
	return &a, nil
}

// Technicians

func (s *Store) ListTechnicians(ctx context.Context, q repository.TechnicianQuery) ([]models.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list technicians"); err != nil {
		return nil, err
	}
	var matched []entry[models.Technician]
	for _, e := range s.technicians {
		if q.AvailableOnly && !e.rec.Availability {
			continue
		}
		if q.Specialty != "" && e.rec.Specialty != q.Specialty {
			continue
		}
		matched = append(matched, e)
	}
	return newestFirst(matched, func(t models.Technician) time.Time { return t.CreatedAt }), nil
}

func (s *Store) GetTechnician(ctx context.Context, id string) (*models.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get technician"); err != nil {
		return nil, err
	}
	e, ok := s.technicians[id]
	if !ok {
		return nil, apperr.NotFound("technician", id)
	}
	t := e.rec
	return &t, nil
}

func (s *Store) InsertTechnician(ctx context.Context, t *models.Technician) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert technician"); err != nil {
		return err
	}
	now := s.now()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = now, now
	s.technicians[t.ID] = entry[models.Technician]{seq: s.next(), rec: *t}
	return nil
}

func (s *Store) SetAvailability(ctx context.Context, id string, available bool) (*models.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("set availability"); err != nil {
		return nil, err
	}
	e, ok := s.technicians[id]
	if !ok {
		return nil, apperr.NotFound("technician", id)
	}
	e.rec.Availability = available
	e.rec.UpdatedAt = s.now()
	s.technicians[id] = e
	t := e.rec
	return &t, nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("create user"); err != nil {
		return err
	}
	for _, e := range s.users {
		if strings.EqualFold(e.rec.Email, u.Email) {
			return apperr.Newf(apperr.KindValidation, "email %q already registered", u.Email)
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.now()
	s.users[u.ID] = entry[models.User]{seq: s.next(), rec: *u}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get user"); err != nil {
		return nil, err
	}
	for _, e := range s.users {
		if strings.EqualFold(e.rec.Email, email) {
			u := e.rec
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("get user"); err != nil {
		return nil, err
	}
	e, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	u := e.rec
	return &u, nil
}
