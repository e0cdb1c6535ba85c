package store

import (
	"fmt"
	"time"

	"clinic-sync-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// GetTransactionsByClinic filters transactions by clinic; an empty
// clinicID means the active clinic.
func (s *Store) GetTransactionsByClinic(clinicID string) []entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clinicID == "" {
		clinicID = s.doc.Settings.ActiveClinicID
	}
	var out []entity.Transaction
	for _, t := range s.doc.Finances.Transactions {
		if t.ClinicID == clinicID {
			out = append(out, t)
		}
	}
	return out
}

// AddTransaction records an income or expense movement. When the
// transaction is linked to a patient the ledger is recomputed in full,
// never patched incrementally.
func (s *Store) AddTransaction(actingUser string, tx entity.Transaction) (entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.New().String()
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if tx.ClinicID == "" {
		tx.ClinicID = s.doc.Settings.ActiveClinicID
	}
	s.doc.Finances.Transactions = append(s.doc.Finances.Transactions, tx)

	if tx.PatientID != "" {
		s.recalculateLedgerLocked(tx.PatientID)
	}

	action := entity.AuditActionExpenseAdd
	if tx.Type == entity.TransactionTypeIncome {
		action = entity.AuditActionIncomeAdd
	}
	s.logActionLocked(actingUser, action,
		fmt.Sprintf("Recorded %s of %.2f: %s", tx.Type, tx.Amount, tx.Description))

	if err := s.saveLocalLocked(); err != nil {
		return entity.Transaction{}, err
	}
	return tx, nil
}

// RecalculateLedger recomputes one patient's balance from scratch and
// persists the result.
func (s *Store) RecalculateLedger(patientID string) (entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateLedgerLocked(patientID)
	entry := s.doc.Finances.Ledger[patientID]
	if err := s.saveLocalLocked(); err != nil {
		return entity.LedgerEntry{}, err
	}
	return entry, nil
}

// GetLedgerEntry returns the cached balance for a patient.
func (s *Store) GetLedgerEntry(patientID string) (entity.LedgerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.doc.Finances.Ledger[patientID]
	return entry, ok
}

// recalculateLedgerLocked derives the balance as a pure function of the
// patient's appointments and transactions:
// income credits, expenses debit, appointment costs debit.
// Recomputing twice from the same inputs yields the same value.
func (s *Store) recalculateLedgerLocked(patientID string) {
	balance := 0.0
	for _, t := range s.doc.Finances.Transactions {
		if t.PatientID != patientID {
			continue
		}
		if t.Type == entity.TransactionTypeIncome {
			balance += t.Amount
		} else {
			balance -= t.Amount
		}
	}
	for _, a := range s.doc.Appointments {
		if a.PatientID == patientID {
			balance -= a.Cost
		}
	}
	if s.doc.Finances.Ledger == nil {
		s.doc.Finances.Ledger = map[string]entity.LedgerEntry{}
	}
	s.doc.Finances.Ledger[patientID] = entity.LedgerEntry{
		Balance:     balance,
		LastUpdated: time.Now(),
	}
}
