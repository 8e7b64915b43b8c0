package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{JobStatusRequested, JobStatusAccepted, true},
		{JobStatusRequested, JobStatusCancelled, true},
		{JobStatusRequested, JobStatusInProgress, false},
		{JobStatusRequested, JobStatusCompleted, false},
		{JobStatusAccepted, JobStatusInProgress, true},
		{JobStatusAccepted, JobStatusCancelled, true},
		{JobStatusAccepted, JobStatusCompleted, false},
		{JobStatusInProgress, JobStatusPendingCompletion, true},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusCancelled, false},
		{JobStatusPendingCompletion, JobStatusCompleted, true},
		{JobStatusPendingCompletion, JobStatusCancelled, false},
		{JobStatusCompleted, JobStatusRequested, false},
		{JobStatusCancelled, JobStatusAccepted, false},
		{"bogus", JobStatusAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for status := range ValidJobStatuses {
		if !IsTerminalJobStatus(status) {
			continue
		}
		for target := range ValidJobStatuses {
			assert.False(t, CanTransition(status, target),
				"terminal status %s must not reach %s", status, target)
		}
	}
}

func TestHasCoordinates(t *testing.T) {
	lat, lng := 6.5244, 3.3792

	assert.False(t, (&Job{}).HasCoordinates())
	assert.False(t, (&Job{Latitude: &lat}).HasCoordinates())
	assert.True(t, (&Job{Latitude: &lat, Longitude: &lng}).HasCoordinates())
}
