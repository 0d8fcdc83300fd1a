package models

// DoctorProfile is the doctor read model at doctorProfiles/{doctorId}.
// TotalPatients, Rating and TotalRatings are aggregates owned by the
// lifecycle sweep and the rating ledger; nothing else writes them.
type DoctorProfile struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization,omitempty"`
	ConsultationFee float64 `json:"consultationFee"`
	TotalPatients   int     `json:"totalPatients"`
	Rating          float64 `json:"rating"`
	TotalRatings    int     `json:"totalRatings"`
	Verified        bool    `json:"verified"` // set by a separate approval workflow, read-only here
	FCMToken        string  `json:"fcmToken,omitempty"`
}
