package models

// User is the patient record at users/{id}; consumed here only for
// display names and push tokens.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"` // "user" or "doctor"
	FCMToken string `json:"fcmToken,omitempty"`
}
