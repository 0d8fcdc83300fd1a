package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"approved to completed", StatusApproved, StatusCompleted, true},
		{"approved to cancelled", StatusApproved, StatusCancelled, true},
		{"approved to pending", StatusApproved, StatusPending, false},
		{"approved to rejected", StatusApproved, StatusRejected, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusApproved, false},
		{"rejected is terminal", StatusRejected, StatusPending, false},
		{"nothing re-enters pending", StatusCompleted, StatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))
		})
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestNewDoctorScheduleHasEveryWeekday(t *testing.T) {
	s := NewDoctorSchedule("doc-1")
	assert.Len(t, s.WeekSchedule, 7)
	for _, day := range Weekdays {
		window, ok := s.Day(day)
		assert.True(t, ok, "missing %s", day)
		assert.False(t, window.Available)
	}
	assert.Equal(t, 30, s.AppointmentDuration)
}

func TestNormalizeFillsMissingDays(t *testing.T) {
	s := &DoctorSchedule{
		DoctorID: "doc-1",
		WeekSchedule: map[string]DaySchedule{
			"monday": {Available: true, StartTime: "09:00", EndTime: "17:00"},
		},
	}
	s.Normalize()
	assert.Len(t, s.WeekSchedule, 7)
	assert.Equal(t, 30, s.AppointmentDuration)

	monday, _ := s.Day("monday")
	assert.True(t, monday.Available, "existing day must not be overwritten")
}
