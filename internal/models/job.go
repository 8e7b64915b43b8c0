package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses. A job moves forward through the lifecycle only;
// completed and cancelled are terminal.
const (
	JobStatusRequested         = "requested"
	JobStatusAccepted          = "accepted"
	JobStatusInProgress        = "in_progress"
	JobStatusPendingCompletion = "pending_completion"
	JobStatusCompleted         = "completed"
	JobStatusCancelled         = "cancelled"
)

// ValidJobStatuses lists every status a job record may carry.
var ValidJobStatuses = map[string]struct{}{
	JobStatusRequested:         {},
	JobStatusAccepted:          {},
	JobStatusInProgress:        {},
	JobStatusPendingCompletion: {},
	JobStatusCompleted:         {},
	JobStatusCancelled:         {},
}

// jobTransitions is the full transition table. Assignment covers
// requested -> accepted; cancellation covers requested/accepted -> cancelled.
var jobTransitions = map[string]map[string]struct{}{
	JobStatusRequested: {
		JobStatusAccepted:  {},
		JobStatusCancelled: {},
	},
	JobStatusAccepted: {
		JobStatusInProgress: {},
		JobStatusCancelled:  {},
	},
	JobStatusInProgress: {
		JobStatusPendingCompletion: {},
		JobStatusCompleted:         {},
	},
	JobStatusPendingCompletion: {
		JobStatusCompleted: {},
	},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to string) bool {
	next, ok := jobTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsTerminalJobStatus reports whether a status permits no further transitions.
func IsTerminalJobStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusCancelled
}

// Job is a single requested unit of field work.
type Job struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ClientID       uuid.UUID  `db:"client_id" json:"client_id"`
	ArtisanID      *uuid.UUID `db:"artisan_id" json:"artisan_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Category       string     `db:"category" json:"category"`
	Status         string     `db:"status" json:"status"`
	Amount         *float64   `db:"amount" json:"amount,omitempty"`
	ScheduledAt    *Timestamp `db:"scheduled_at" json:"scheduled_at,omitempty"`
	ServiceAddress *string    `db:"service_address" json:"service_address,omitempty"`
	ServiceState   *string    `db:"service_state" json:"service_state,omitempty"`
	Latitude       *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64   `db:"longitude" json:"longitude,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// HasCoordinates reports whether a service location was captured for the job.
func (j *Job) HasCoordinates() bool {
	return j.Latitude != nil && j.Longitude != nil
}
