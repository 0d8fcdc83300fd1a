package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	doctorRepo "medibook/database/repository/doctor"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/utils"
)

// Service defines methods for sending FCM pushes to the two parties of an
// appointment. The lifecycle core emits events through this boundary; a
// delivery failure is logged, never propagated into booking state.
type Service interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendDoctorPush(ctx context.Context, doctorID, title, body string, data map[string]string) error
}

// FCMService is the production implementation.
type FCMService struct {
	Users   userRepo.Repository
	Doctors doctorRepo.Repository
}

func NewFCMService(users userRepo.Repository, doctors doctorRepo.Repository) (*FCMService, error) {
	if users == nil || doctors == nil {
		return nil, fmt.Errorf("notification service initialization error: user or doctor repository is nil")
	}
	return &FCMService{Users: users, Doctors: doctors}, nil
}

// SendUserPush looks up a patient's FCM token and sends a push.
func (s *FCMService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPush: could not find user %s: %w", userID, err)
	}
	if user.FCMToken == "" {
		return fmt.Errorf("SendUserPush: user %s has no FCM token", userID)
	}
	return send(ctx, user.FCMToken, title, body, withRole(data, "user"))
}

// SendDoctorPush looks up a doctor's FCM token and sends a push.
func (s *FCMService) SendDoctorPush(ctx context.Context, doctorID, title, body string, data map[string]string) error {
	doctor, err := s.Doctors.GetByID(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("SendDoctorPush: could not find doctor %s: %w", doctorID, err)
	}
	if doctor.FCMToken == "" {
		return fmt.Errorf("SendDoctorPush: doctor %s has no FCM token", doctorID)
	}
	return send(ctx, doctor.FCMToken, title, body, withRole(data, "doctor"))
}

func withRole(data map[string]string, role string) map[string]string {
	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}
	return data
}

func send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	response, err := utils.FCMClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	utils.GetLogger().Debug("push notification sent", zap.String("response", response))
	return nil
}

// NotifyAppointmentCompleted tells the patient their appointment finished
// and prompts for a rating.
func NotifyAppointmentCompleted(ctx context.Context, svc Service, appt models.Appointment) {
	if svc == nil {
		return
	}
	data := map[string]string{
		"type":          "appointment_completed",
		"appointmentId": appt.ID,
		"doctorId":      appt.DoctorID,
	}
	body := fmt.Sprintf("Your appointment with %s is complete. Tap to rate your experience.", appt.DoctorName)
	if err := svc.SendUserPush(ctx, appt.UserID, "Appointment completed", body, data); err != nil {
		utils.GetLogger().Warn("failed to notify patient of completion",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// NotifyPatientCounted tells the doctor their patient total moved.
func NotifyPatientCounted(ctx context.Context, svc Service, appt models.Appointment) {
	if svc == nil {
		return
	}
	data := map[string]string{
		"type":          "patient_counted",
		"appointmentId": appt.ID,
	}
	if err := svc.SendDoctorPush(ctx, appt.DoctorID, "Appointment completed", "A scheduled appointment has been completed.", data); err != nil {
		utils.GetLogger().Warn("failed to notify doctor of completion",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}
