package converter

import (
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
)

// TransactionToResponse converts a Transaction entity to TransactionResponse DTO
func TransactionToResponse(tx *entity.Transaction) *dto.TransactionResponse {
	if tx == nil {
		return nil
	}

	return &dto.TransactionResponse{
		ID:            tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Date:          tx.Date,
		Description:   tx.Description,
		Beneficiary:   tx.Beneficiary,
		PatientID:     tx.PatientID,
		AppointmentID: tx.AppointmentID,
		ClinicID:      tx.ClinicID,
	}
}

// TransactionsToResponse converts a slice of Transaction entities
func TransactionsToResponse(txs []entity.Transaction) []*dto.TransactionResponse {
	out := make([]*dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, TransactionToResponse(&txs[i]))
	}
	return out
}

// LedgerEntryToResponse converts a LedgerEntry entity to LedgerEntryResponse DTO
func LedgerEntryToResponse(patientID string, entry entity.LedgerEntry) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		PatientID:   patientID,
		Balance:     entry.Balance,
		LastUpdated: entry.LastUpdated,
	}
}
