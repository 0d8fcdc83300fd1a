package models

// DoctorRating is a single patient review, stored at
// doctorRatings/{doctorId}/{ratingId}. At most one rating exists per
// appointment; the appointment's ratingGiven flag guards the write path.
type DoctorRating struct {
	RatingID      string  `json:"ratingId"`
	DoctorID      string  `json:"doctorId"`
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	AppointmentID string  `json:"appointmentId"`
	Rating        float64 `json:"rating"` // 1.0 - 5.0
	Review        string  `json:"review,omitempty"`
	Timestamp     int64   `json:"timestamp"` // unix millis
}
