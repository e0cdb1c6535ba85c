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

type FinanceHandler struct {
	financeUsecase usecase.FinanceUsecase
	validator      *validator.CustomValidator
}

func NewFinanceHandler(financeUsecase usecase.FinanceUsecase, validator *validator.CustomValidator) *FinanceHandler {
	return &FinanceHandler{
		financeUsecase: financeUsecase,
		validator:      validator,
	}
}

// GetAllTransactions lists transactions, scoped to ?clinic_id= or the
// active clinic.
func (h *FinanceHandler) GetAllTransactions(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinic_id")

	transactions, err := h.financeUsecase.ListTransactions(r.Context(), clinicID)
	if err != nil {
		response.InternalServerError(w, "Failed to list transactions")
		return
	}

	response.Success(w, http.StatusOK, "Transactions retrieved successfully", transactions)
}

// AddTransaction records a manual income or expense entry.
func (h *FinanceHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	transaction, err := h.financeUsecase.AddTransaction(r.Context(), actingUserFrom(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to add transaction")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Transaction added successfully", transaction)
}

// GetLedgerEntry returns a patient's cached balance, deriving one when
// no cache exists yet.
func (h *FinanceHandler) GetLedgerEntry(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]

	entry, err := h.financeUsecase.GetLedgerEntry(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get ledger entry")
		}
		return
	}

	response.Success(w, http.StatusOK, "Ledger entry retrieved successfully", entry)
}

// RecalculateLedger rebuilds a patient's balance from the transaction
// and appointment history.
func (h *FinanceHandler) RecalculateLedger(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientId"]

	entry, err := h.financeUsecase.RecalculateLedger(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to recalculate ledger")
		}
		return
	}

	response.Success(w, http.StatusOK, "Ledger recalculated successfully", entry)
}
