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

type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

// GetQueue lists today's waiting and in-progress entries with their
// estimated wait times.
func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queueUsecase.GetActiveQueue(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", entries)
}

// GetCurrentPatient returns the entry under consultation; data is null
// when nobody is being seen.
func (h *QueueHandler) GetCurrentPatient(w http.ResponseWriter, r *http.Request) {
	entry, err := h.queueUsecase.GetCurrentPatient(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get current patient")
		return
	}

	response.Success(w, http.StatusOK, "Current patient retrieved successfully", entry)
}

// GetCompletedToday lists consultations finished today.
func (h *QueueHandler) GetCompletedToday(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queueUsecase.GetCompletedToday(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list completed consultations")
		return
	}

	response.Success(w, http.StatusOK, "Completed consultations retrieved successfully", entries)
}

// CheckIn adds an appointment's patient to the queue.
func (h *QueueHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.queueUsecase.CheckIn(r.Context(), actingUserFrom(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, store.ErrAlreadyInQueue):
			response.Error(w, http.StatusConflict, "Patient is already checked in", nil)
		default:
			response.InternalServerError(w, "Failed to check in")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Checked in successfully", entry)
}

// UpdateStatus moves a queue entry through the patient flow.
func (h *QueueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.UpdateQueueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.queueUsecase.UpdateStatus(r.Context(), actingUserFrom(r), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrQueueEntryNotFound):
			response.NotFound(w, "Queue entry not found")
		case errors.Is(err, store.ErrInvalidQueueStatus):
			response.Error(w, http.StatusBadRequest, "Unknown queue status", nil)
		default:
			response.InternalServerError(w, "Failed to update queue entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue entry updated successfully", entry)
}

// Remove deletes a queue entry outright.
func (h *QueueHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.queueUsecase.Remove(r.Context(), actingUserFrom(r), id); err != nil {
		switch {
		case errors.Is(err, store.ErrQueueEntryNotFound):
			response.NotFound(w, "Queue entry not found")
		default:
			response.InternalServerError(w, "Failed to remove queue entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Queue entry removed successfully", nil)
}
