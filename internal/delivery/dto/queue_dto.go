package dto

import "time"

type CheckInRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

type UpdateQueueStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=waiting in-progress completed cancelled"`
}

type QueueEntryResponse struct {
	ID                   string     `json:"id"`
	AppointmentID        string     `json:"appointment_id"`
	PatientName          string     `json:"patient_name"`
	PatientCode          int        `json:"patient_code"`
	Status               string     `json:"status"`
	CheckInTime          time.Time  `json:"check_in_time"`
	StartTime            *time.Time `json:"start_time,omitempty"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	EstimatedWaitMinutes int        `json:"estimated_wait_minutes"`
}
