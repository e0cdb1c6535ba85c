package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/delivery/http/middleware"
	"clinic-sync-backend/internal/store"
	"clinic-sync-backend/internal/usecase"
	"clinic-sync-backend/pkg/response"
	"clinic-sync-backend/pkg/validator"

	"github.com/gorilla/mux"
)

// maxImportSize bounds CSV and backup uploads.
const maxImportSize = 32 << 20

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// GetAllPatients lists patients, scoped to ?clinic_id= or the active clinic.
func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")

	patients, err := h.patientUsecase.ListPatients(r.Context(), clinicID)
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

// GetPatient returns one patient by id.
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// SavePatient creates a patient, or updates one when the body carries an id.
func (h *PatientHandler) SavePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actingUser := actingUserFrom(r)
	patient, err := h.patientUsecase.SavePatient(r.Context(), actingUser, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to save patient")
		}
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	response.Success(w, status, "Patient saved successfully", patient)
}

// DeletePatient removes a patient and every dependent record.
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.patientUsecase.DeletePatient(r.Context(), actingUserFrom(r), id); err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

// AddVisit appends a clinical visit note to a patient's history.
func (h *PatientHandler) AddVisit(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	var req dto.VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	visit, err := h.patientUsecase.AddVisit(r.Context(), actingUserFrom(r), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to add visit")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Visit added successfully", visit)
}

// GetDocuments lists the document metadata attached to a patient.
func (h *PatientHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	docs, err := h.patientUsecase.ListDocuments(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to list documents")
		return
	}

	response.Success(w, http.StatusOK, "Documents retrieved successfully", docs)
}

// AddDocument attaches document metadata to a patient.
func (h *PatientHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	var req dto.PatientDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doc, err := h.patientUsecase.AddDocument(r.Context(), actingUserFrom(r), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to add document")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Document added successfully", doc)
}

// RemoveDocument deletes one document metadata entry.
func (h *PatientHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	err := h.patientUsecase.RemoveDocument(r.Context(), actingUserFrom(r), vars["id"], vars["docId"])
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDocumentNotFound):
			response.NotFound(w, "Document not found")
		default:
			response.InternalServerError(w, "Failed to remove document")
		}
		return
	}

	response.Success(w, http.StatusOK, "Document removed successfully", nil)
}

// ExportCSV streams all patients as a UTF-8 BOM prefixed CSV download.
func (h *PatientHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.patientUsecase.ExportCSV(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to export patients")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="patients.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportCSV merges patients from an uploaded CSV, skipping codes that
// already exist.
func (h *PatientHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read upload", nil)
		return
	}

	result, err := h.patientUsecase.ImportCSV(r.Context(), actingUserFrom(r), data)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to import patients", nil)
		return
	}

	response.Success(w, http.StatusOK, "Patients imported successfully", result)
}

// actingUserFrom resolves the audit identity for a mutation. Requests
// that somehow lack an authenticated user are recorded as system.
func actingUserFrom(r *http.Request) string {
	if username, ok := middleware.GetUsernameFromContext(r.Context()); ok && username != "" {
		return username
	}
	return "system"
}
