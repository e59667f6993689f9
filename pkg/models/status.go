package models

import (
	"strings"

	"github.com/garnizeh/techstaff/pkg/apperr"
)

type MissionStatus string

const (
	MissionOpen       MissionStatus = "open"
	MissionInProgress MissionStatus = "in-progress"
	MissionCompleted  MissionStatus = "completed"
	MissionCancelled  MissionStatus = "cancelled"
)

// legacy values still found in older rows and clients
var legacyMissionStatus = map[string]MissionStatus{
	"active": MissionOpen,
	"closed": MissionCompleted,
}

func (s MissionStatus) Valid() bool {
	switch s {
	case MissionOpen, MissionInProgress, MissionCompleted, MissionCancelled:
		return true
	}
	return false
}

func (s MissionStatus) IsTerminal() bool {
	return s == MissionCompleted || s == MissionCancelled
}

// ParseMissionStatus maps user or stored input onto the canonical vocabulary.
// "active" and "closed" are accepted as aliases; "draft" and anything else
// unknown are rejected.
func ParseMissionStatus(s string) (MissionStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if st := MissionStatus(v); st.Valid() {
		return st, nil
	}
	if st, ok := legacyMissionStatus[v]; ok {
		return st, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown mission status %q", s)
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperr.Newf(apperr.KindValidation, "unknown application status %q", s)
	}
	return st, nil
}

type Specialty string

const (
	SpecialtyMechanic    Specialty = "mechanic"
	SpecialtyBodywork    Specialty = "bodywork"
	SpecialtyReception   Specialty = "reception"
	SpecialtyMaintenance Specialty = "maintenance"
)

func (s Specialty) Valid() bool {
	switch s {
	case SpecialtyMechanic, SpecialtyBodywork, SpecialtyReception, SpecialtyMaintenance:
		return true
	}
	return false
}

// Label is the French display name used in popups.
func (s Specialty) Label() string {
	switch s {
	case SpecialtyMechanic:
		return "Mécanique"
	case SpecialtyBodywork:
		return "Carrosserie"
	case SpecialtyReception:
		return "Accueil"
	case SpecialtyMaintenance:
		return "Maintenance"
	}
	return string(s)
}

func ParseSpecialty(s string) (Specialty, error) {
	sp := Specialty(strings.ToLower(strings.TrimSpace(s)))
	if !sp.Valid() {
		return "", apperr.Newf(apperr.KindValidation, "unknown specialty %q", s)
	}
	return sp, nil
}

type Role string

const (
	RoleRecruiter  Role = "recruiter"
	RoleTechnician Role = "technician"
)

func (r Role) Valid() bool {
	return r == RoleRecruiter || r == RoleTechnician
}

// Durations offered by the mission form.
var Durations = []string{"1 jour", "1 semaine", "1 mois", "3 mois", "6 mois", "CDI"}

func IsDuration(s string) bool {
	for _, d := range Durations {
		if d == s {
			return true
		}
	}
	return false
}
