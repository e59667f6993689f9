// Package marketplace holds the mission and application lifecycles. It is
// transport-agnostic: the HTTP handlers in api and the admin CLI both call it.
//
// Mission status graph:
//
//	open ◄──► in-progress
//	  │            │
//	  └─────┬──────┘
//	        ▼
//	completed | cancelled
//
// Application status graph:
//
//	pending ──► accepted
//	   └──────► rejected
//
// completed, cancelled, accepted and rejected are terminal.
package marketplace

import "github.com/garnizeh/techstaff/pkg/models"

var missionTransitions = map[models.MissionStatus][]models.MissionStatus{
	models.MissionOpen:       {models.MissionInProgress, models.MissionCompleted, models.MissionCancelled},
	models.MissionInProgress: {models.MissionOpen, models.MissionCompleted, models.MissionCancelled},
}

var applicationTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationPending: {models.ApplicationAccepted, models.ApplicationRejected},
}

// MissionTransitionAllowed reports whether a mission may move from → to.
// Keeping the same status is always allowed.
func MissionTransitionAllowed(from, to models.MissionStatus) bool {
	if from == to {
		return true
	}
	return contains(missionTransitions[from], to)
}

// ApplicationTransitionAllowed reports whether an application may move
// from → to. There is no self transition.
func ApplicationTransitionAllowed(from, to models.ApplicationStatus) bool {
	return contains(applicationTransitions[from], to)
}

func contains[T comparable](list []T, v T) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
