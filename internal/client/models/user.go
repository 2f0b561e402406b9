// Package models holds the client-side data model: the cached user record,
// the session, and the registration draft. All of it is owned by the ORCHA
// backend; the client only caches copies returned from it.
package models

import "time"

// JobTitle is the profession a user picks during onboarding.
type JobTitle string

const (
	JobTitleNone       JobTitle = ""
	JobTitleDoctor     JobTitle = "Doctor"
	JobTitleLawyer     JobTitle = "Lawyer"
	JobTitleEngineer   JobTitle = "Engineer"
	JobTitleAccountant JobTitle = "Accountant"
)

// JobTitles lists the selectable values, in display order.
var JobTitles = []JobTitle{JobTitleDoctor, JobTitleLawyer, JobTitleEngineer, JobTitleAccountant}

// Valid reports whether j is one of the selectable titles or empty.
func (j JobTitle) Valid() bool {
	switch j {
	case JobTitleNone, JobTitleDoctor, JobTitleLawyer, JobTitleEngineer, JobTitleAccountant:
		return true
	}
	return false
}

// User is the identity record cached from the backend. It is mutated locally
// only by overwriting it with a fresher copy (login, refresh, job-title
// update, registration).
type User struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name,omitempty"`
	JobTitle          JobTitle   `json:"job_title,omitempty"`
	IsActive          bool       `json:"is_active"`
	PlanType          string     `json:"plan_type"`
	CreatedAt         time.Time  `json:"created_at"`
	ConversationCount int64      `json:"conversation_count"`
	MessageCount      int64      `json:"message_count"`
	LastActivity      *time.Time `json:"last_activity,omitempty"`
}
