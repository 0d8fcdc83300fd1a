package models

import "time"

// Weekdays lists the canonical lowercase day keys used in weekSchedule maps.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DaySchedule is one weekday's open window inside a doctor's weekly template.
// Times are wall-clock "HH:mm" strings in the clinic's local time.
type DaySchedule struct {
	Available      bool   `json:"isAvailable"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	BreakStartTime string `json:"breakStartTime,omitempty"`
	BreakEndTime   string `json:"breakEndTime,omitempty"`
}

// HasBreak reports whether a break window is configured.
func (d DaySchedule) HasBreak() bool {
	return d.BreakStartTime != "" && d.BreakEndTime != ""
}

// DefaultDaySchedule returns the closed default used for newly created
// schedules: not available, with a 09:00-17:00 window and a lunch break
// prefilled for when the day is switched on.
func DefaultDaySchedule() DaySchedule {
	return DaySchedule{
		Available:      false,
		StartTime:      "09:00",
		EndTime:        "17:00",
		BreakStartTime: "12:00",
		BreakEndTime:   "13:00",
	}
}

// DoctorSchedule is a doctor's weekly availability template, stored at
// doctorSchedules/{doctorId}.
type DoctorSchedule struct {
	DoctorID            string                 `json:"doctorId"`
	WeekSchedule        map[string]DaySchedule `json:"weekSchedule"`
	AppointmentDuration int                    `json:"appointmentDuration"` // slot length, minutes
	LastUpdated         int64                  `json:"lastUpdated"`         // unix millis
}

// NewDoctorSchedule builds a schedule with every weekday present and closed.
func NewDoctorSchedule(doctorID string) *DoctorSchedule {
	s := &DoctorSchedule{
		DoctorID:            doctorID,
		WeekSchedule:        make(map[string]DaySchedule, len(Weekdays)),
		AppointmentDuration: 30,
		LastUpdated:         time.Now().UnixMilli(),
	}
	for _, day := range Weekdays {
		s.WeekSchedule[day] = DefaultDaySchedule()
	}
	return s
}

// Normalize fills in any weekday missing from a stored schedule so lookups
// never hit an absent key.
func (s *DoctorSchedule) Normalize() {
	if s.WeekSchedule == nil {
		s.WeekSchedule = make(map[string]DaySchedule, len(Weekdays))
	}
	for _, day := range Weekdays {
		if _, ok := s.WeekSchedule[day]; !ok {
			s.WeekSchedule[day] = DefaultDaySchedule()
		}
	}
	if s.AppointmentDuration <= 0 {
		s.AppointmentDuration = 30
	}
}

// Day returns the schedule for a weekday key ("monday".."sunday").
func (s *DoctorSchedule) Day(day string) (DaySchedule, bool) {
	d, ok := s.WeekSchedule[day]
	return d, ok
}

// SetDay replaces one weekday's window and stamps LastUpdated.
func (s *DoctorSchedule) SetDay(day string, d DaySchedule) {
	if s.WeekSchedule == nil {
		s.WeekSchedule = make(map[string]DaySchedule, len(Weekdays))
	}
	s.WeekSchedule[day] = d
	s.LastUpdated = time.Now().UnixMilli()
}
