package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/garnizeh/techstaff/pkg/apperr"
)

// Domain models matching the tables in db/migrations/{sqlite,postgres}/0001_init.sql

type Mission struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Location     string        `json:"location"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	Salary       *float64      `json:"salary,omitempty"`
	Duration     *string       `json:"duration,omitempty"`
	Requirements *string       `json:"requirements,omitempty"`
	Type         *Specialty    `json:"type,omitempty"`
	RecruiterID  string        `json:"recruiterId"`
	Status       MissionStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// HasCoordinates reports whether the mission can be placed on a map.
func (m *Mission) HasCoordinates() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Validate checks required fields and value ranges. It does not trim or
// otherwise rewrite the mission.
func (m *Mission) Validate() error {
	if m == nil {
		return apperr.Validation("mission is nil")
	}
	var missing []string
	if strings.TrimSpace(m.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(m.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(m.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if strings.TrimSpace(m.RecruiterID) == "" {
		return apperr.Validation("recruiterId is required")
	}
	if (m.Latitude == nil) != (m.Longitude == nil) {
		return apperr.Validation("latitude and longitude must be set together")
	}
	if m.HasCoordinates() {
		if err := validateCoordinates(*m.Latitude, *m.Longitude); err != nil {
			return err
		}
	}
	if m.Salary != nil && *m.Salary <= 0 {
		return apperr.Validation("salary must be positive")
	}
	if m.Duration != nil && !IsDuration(*m.Duration) {
		return apperr.Newf(apperr.KindValidation, "unknown duration %q", *m.Duration)
	}
	if m.Type != nil && !m.Type.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown mission type %q", *m.Type)
	}
	if !m.Status.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown mission status %q", m.Status)
	}
	return nil
}

type Application struct {
	ID          string            `json:"id"`
	MissionID   string            `json:"missionId"`
	ApplicantID string            `json:"applicantId"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       *string           `json:"phone,omitempty"`
	Experience  *string           `json:"experience,omitempty"`
	CoverLetter *string           `json:"coverLetter,omitempty"`
	CVURL       *string           `json:"cvUrl,omitempty"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a *Application) Validate() error {
	if a == nil {
		return apperr.Validation("application is nil")
	}
	var missing []string
	if strings.TrimSpace(a.MissionID) == "" {
		missing = append(missing, "missionId")
	}
	if strings.TrimSpace(a.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(a.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(a.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if !ValidEmail(a.Email) {
		return apperr.Newf(apperr.KindValidation, "invalid email %q", a.Email)
	}
	if strings.TrimSpace(a.ApplicantID) == "" {
		return apperr.Validation("applicantId is required")
	}
	if !a.Status.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown application status %q", a.Status)
	}
	return nil
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Technician struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Specialty    Specialty `json:"specialty"`
	Location     Location  `json:"location"`
	Availability bool      `json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (t *Technician) Validate() error {
	if t == nil {
		return apperr.Validation("technician is nil")
	}
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Validation("missing required fields: name")
	}
	if !t.Specialty.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown specialty %q", t.Specialty)
	}
	return validateCoordinates(t.Location.Lat, t.Location.Lng)
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) Validate() error {
	if u == nil {
		return apperr.Validation("user is nil")
	}
	if strings.TrimSpace(u.Name) == "" {
		return apperr.Validation("missing required fields: name")
	}
	if !ValidEmail(u.Email) {
		return apperr.Newf(apperr.KindValidation, "invalid email %q", u.Email)
	}
	if u.PasswordHash == "" {
		return apperr.Validation("password hash is required")
	}
	if !u.Role.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown role %q", u.Role)
	}
	return nil
}

// ValidEmail accepts a bare address such as "j@x.com".
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == strings.TrimSpace(s)
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("latitude %v out of range", lat))
	}
	if lng < -180 || lng > 180 {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("longitude %v out of range", lng))
	}
	return nil
}
