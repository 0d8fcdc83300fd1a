package models

// AppointmentStatus is the lifecycle state of a booking.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// allowedTransitions encodes the appointment state machine. Transitions are
// one-way; nothing ever re-enters pending.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from s to target is a legal transition.
func (s AppointmentStatus) CanTransition(target AppointmentStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Appointment is the authoritative booking record, stored at
// appointments/{id}. Scheduling fields and the consultation fee are
// snapshots taken at booking time; later schedule or fee edits never
// touch an existing appointment.
type Appointment struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	DoctorID        string            `json:"doctorId"`
	DoctorName      string            `json:"doctorName"`
	AppointmentDate string            `json:"appointmentDate"` // "2006-01-02" for new records; legacy rows may use month-name forms
	AppointmentTime string            `json:"appointmentTime"` // "15:04"
	DurationMinutes int               `json:"durationMinutes"`
	ConsultationFee float64           `json:"consultationFee"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	PatientCounted  bool              `json:"patientCounted"`
	RatingGiven     bool              `json:"ratingGiven"`
	Timestamp       int64             `json:"timestamp"` // creation time, unix millis
}
