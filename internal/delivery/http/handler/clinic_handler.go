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

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

// GetAllClinics lists every clinic location.
func (h *ClinicHandler) GetAllClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicUsecase.ListClinics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list clinics")
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", clinics)
}

// GetActiveClinic returns the currently selected clinic.
func (h *ClinicHandler) GetActiveClinic(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.clinicUsecase.GetActiveClinic(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get active clinic")
		return
	}

	response.Success(w, http.StatusOK, "Active clinic retrieved successfully", clinic)
}

// SetActiveClinic switches the active clinic.
func (h *ClinicHandler) SetActiveClinic(w http.ResponseWriter, r *http.Request) {
	var req dto.SetActiveClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.SetActiveClinic(r.Context(), req.ClinicID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrClinicNotFound):
			response.NotFound(w, "Clinic not found")
		default:
			response.InternalServerError(w, "Failed to set active clinic")
		}
		return
	}

	response.Success(w, http.StatusOK, "Active clinic updated successfully", clinic)
}

// CreateClinic adds a clinic location.
func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var req dto.ClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.CreateClinic(r.Context(), actingUserFrom(r), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create clinic")
		return
	}

	response.Success(w, http.StatusCreated, "Clinic created successfully", clinic)
}

// UpdateClinic edits a clinic location.
func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	clinic, err := h.clinicUsecase.UpdateClinic(r.Context(), actingUserFrom(r), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrClinicNotFound):
			response.NotFound(w, "Clinic not found")
		default:
			response.InternalServerError(w, "Failed to update clinic")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic updated successfully", clinic)
}

// DeleteClinic removes a clinic. The last clinic and clinics that still
// own data are protected.
func (h *ClinicHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.clinicUsecase.DeleteClinic(r.Context(), actingUserFrom(r), id); err != nil {
		switch {
		case errors.Is(err, store.ErrClinicNotFound):
			response.NotFound(w, "Clinic not found")
		case errors.Is(err, store.ErrLastClinic):
			response.Error(w, http.StatusConflict, "Cannot delete the last clinic", nil)
		case errors.Is(err, store.ErrClinicHasData):
			response.Error(w, http.StatusConflict, "Clinic still has patients, appointments or transactions", nil)
		default:
			response.InternalServerError(w, "Failed to delete clinic")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic deleted successfully", nil)
}
