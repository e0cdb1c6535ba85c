package usecase

import (
	"context"
	"time"

	"clinic-sync-backend/internal/converter"
	"clinic-sync-backend/internal/delivery/dto"
	"clinic-sync-backend/internal/domain/entity"
	"clinic-sync-backend/internal/store"

	"github.com/sirupsen/logrus"
)

type FinanceUsecase interface {
	ListTransactions(ctx context.Context, clinicID string) ([]*dto.TransactionResponse, error)
	AddTransaction(ctx context.Context, actingUser string, req *dto.TransactionRequest) (*dto.TransactionResponse, error)
	GetLedgerEntry(ctx context.Context, patientID string) (*dto.LedgerEntryResponse, error)
	RecalculateLedger(ctx context.Context, patientID string) (*dto.LedgerEntryResponse, error)
}

type financeUsecase struct {
	store *store.Store
	log   *logrus.Logger
}

func NewFinanceUsecase(st *store.Store, log *logrus.Logger) FinanceUsecase {
	return &financeUsecase{store: st, log: log}
}

func (u *financeUsecase) ListTransactions(ctx context.Context, clinicID string) ([]*dto.TransactionResponse, error) {
	return converter.TransactionsToResponse(u.store.GetTransactionsByClinic(clinicID)), nil
}

func (u *financeUsecase) AddTransaction(ctx context.Context, actingUser string, req *dto.TransactionRequest) (*dto.TransactionResponse, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	tx := entity.Transaction{
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Beneficiary: req.Beneficiary,
		PatientID:   req.PatientID,
		ClinicID:    req.ClinicID,
	}

	added, err := u.store.AddTransaction(actingUser, tx)
	if err != nil {
		u.log.Warnf("Failed to add transaction: %+v", err)
		return nil, err
	}
	return converter.TransactionToResponse(&added), nil
}

func (u *financeUsecase) GetLedgerEntry(ctx context.Context, patientID string) (*dto.LedgerEntryResponse, error) {
	entry, ok := u.store.GetLedgerEntry(patientID)
	if !ok {
		// No cached balance yet; derive one on demand.
		return u.RecalculateLedger(ctx, patientID)
	}
	return converter.LedgerEntryToResponse(patientID, entry), nil
}

func (u *financeUsecase) RecalculateLedger(ctx context.Context, patientID string) (*dto.LedgerEntryResponse, error) {
	entry, err := u.store.RecalculateLedger(patientID)
	if err != nil {
		return nil, err
	}
	return converter.LedgerEntryToResponse(patientID, entry), nil
}
