package store

import (
	"testing"

	"clinic-sync-backend/internal/domain/entity"
)

func TestDeriveAppointmentStatus(t *testing.T) {
	tests := []struct {
		name string
		paid float64
		cost float64
		want string
	}{
		{"nothing paid", 0, 100, entity.AppointmentStatusUnpaid},
		{"negative paid", -5, 100, entity.AppointmentStatusUnpaid},
		{"partial payment", 40, 100, entity.AppointmentStatusPartial},
		{"exact payment", 100, 100, entity.AppointmentStatusPaid},
		{"overpayment", 120, 100, entity.AppointmentStatusPaid},
		{"free appointment owes nothing", 0, 0, entity.AppointmentStatusPaid},
		{"free appointment with payment", 10, 0, entity.AppointmentStatusPaid},
		{"free appointment negative paid", -5, 0, entity.AppointmentStatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entity.DeriveAppointmentStatus(tt.paid, tt.cost); got != tt.want {
				t.Errorf("DeriveAppointmentStatus(%v, %v) = %q, want %q", tt.paid, tt.cost, got, tt.want)
			}
		})
	}
}

func TestAppointmentTransactionLockstep(t *testing.T) {
	s := newTestStore(t)
	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Hana"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	// Unpaid appointment creates no transaction.
	appt, err := s.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "filling", Cost: 200, Paid: 0,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if appt.Status != entity.AppointmentStatusUnpaid {
		t.Errorf("status = %q, want unpaid", appt.Status)
	}
	if txs := s.GetTransactionsByClinic(""); len(txs) != 0 {
		t.Fatalf("unpaid appointment created %d transactions", len(txs))
	}

	// First payment creates exactly one linked income transaction.
	appt.Paid = 80
	appt, err = s.UpsertAppointment("tester", appt)
	if err != nil {
		t.Fatalf("update appointment: %v", err)
	}
	txs := s.GetTransactionsByClinic("")
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if txs[0].Amount != 80 || txs[0].Type != entity.TransactionTypeIncome || txs[0].AppointmentID != appt.ID {
		t.Errorf("linked transaction = %+v", txs[0])
	}

	// Changing the amount updates the same transaction in place.
	appt.Paid = 150
	if _, err = s.UpsertAppointment("tester", appt); err != nil {
		t.Fatalf("update appointment: %v", err)
	}
	txs = s.GetTransactionsByClinic("")
	if len(txs) != 1 {
		t.Fatalf("transactions after amount change = %d, want 1", len(txs))
	}
	if txs[0].Amount != 150 {
		t.Errorf("transaction amount = %v, want 150", txs[0].Amount)
	}

	// Dropping paid to zero removes the transaction.
	appt.Paid = 0
	if _, err = s.UpsertAppointment("tester", appt); err != nil {
		t.Fatalf("update appointment: %v", err)
	}
	if txs := s.GetTransactionsByClinic(""); len(txs) != 0 {
		t.Fatalf("transactions after zeroing paid = %d, want 0", len(txs))
	}
}

func TestDeleteAppointmentRemovesLinkedTransaction(t *testing.T) {
	s := newTestStore(t)
	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Yousef"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	appt, err := s.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "extraction", Cost: 300, Paid: 300,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	if err := s.DeleteAppointment("tester", appt.ID); err != nil {
		t.Fatalf("delete appointment: %v", err)
	}
	if txs := s.GetTransactionsByClinic(""); len(txs) != 0 {
		t.Errorf("linked transaction survived appointment delete: %d", len(txs))
	}
	entry, ok := s.GetLedgerEntry(p.ID)
	if !ok {
		t.Fatal("ledger entry missing after recalculation")
	}
	if entry.Balance != 0 {
		t.Errorf("balance after delete = %v, want 0", entry.Balance)
	}
}

func TestLedgerDerivation(t *testing.T) {
	s := newTestStore(t)
	p, err := s.UpsertPatient("tester", entity.Patient{Name: "Dina"})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	// Appointment: cost 100, paid 40. Balance = 40 income - 100 cost.
	if _, err := s.UpsertAppointment("tester", entity.Appointment{
		PatientID: p.ID, Service: "checkup", Cost: 100, Paid: 40,
	}); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	entry, ok := s.GetLedgerEntry(p.ID)
	if !ok {
		t.Fatal("ledger entry missing")
	}
	if entry.Balance != -60 {
		t.Errorf("balance = %v, want -60", entry.Balance)
	}

	// A direct income payment settles the remainder.
	if _, err := s.AddTransaction("tester", entity.Transaction{
		Type: entity.TransactionTypeIncome, Amount: 60, PatientID: p.ID, Description: "settlement",
	}); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	entry, _ = s.GetLedgerEntry(p.ID)
	if entry.Balance != 0 {
		t.Errorf("balance after settlement = %v, want 0", entry.Balance)
	}

	// Recomputing from the same inputs yields the same value.
	recomputed, err := s.RecalculateLedger(p.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if recomputed.Balance != entry.Balance {
		t.Errorf("recalculated balance = %v, want %v", recomputed.Balance, entry.Balance)
	}
}

func TestUpsertAppointmentUnknownPatient(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpsertAppointment("tester", entity.Appointment{PatientID: "ghost"}); err != ErrPatientNotFound {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}
