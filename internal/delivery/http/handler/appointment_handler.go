package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/store"
	"clinic-sync-backend/internal/usecase"
	"clinic-sync-backend/pkg/response"
	"clinic-sync-backend/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetAllAppointments lists appointments, scoped to ?clinic_id= or the
// active clinic.
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), clinicID)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// SaveAppointment creates or updates an appointment. Payment status and
// the linked income transaction are derived server-side.
func (h *AppointmentHandler) SaveAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.SaveAppointment(r.Context(), actingUserFrom(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		case errors.Is(err, store.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to save appointment")
		}
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	response.Success(w, status, "Appointment saved successfully", appointment)
}

// DeleteAppointment removes an appointment and its linked transaction.
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.appointmentUsecase.DeleteAppointment(r.Context(), actingUserFrom(r), id); err != nil {
		switch {
		case errors.Is(err, store.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to delete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}
