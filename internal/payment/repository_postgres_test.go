package payment

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func paidRecord() StatusRecord {
	return StatusRecord{
		ID:        "WVWO-2026-000042",
		Status:    StatusPaid,
		PaymentID: "pay_abc123",
		PaidAt:    "2026-03-14T12:00:00Z",
		Total:     6199,
		CreatedAt: "2026-03-14T12:00:05Z",
		UpdatedAt: "2026-03-14T12:00:05Z",
	}
}

func TestPostgresGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	raw, _ := json.Marshal(paidRecord())
	rows := sqlmock.NewRows([]string{"record"}).AddRow(raw)
	mock.ExpectQuery("SELECT record FROM order_status").
		WithArgs("order:WVWO-2026-000042").
		WillReturnRows(rows)

	rec, err := repo.Get("WVWO-2026-000042")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Status != StatusPaid || rec.PaymentID != "pay_abc123" {
		t.Fatalf("unexpected record %+v", rec)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetMissingOrExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// Expired rows are filtered by the query itself, so both cases come
	// back as zero rows.
	mock.ExpectQuery("SELECT record FROM order_status").
		WithArgs("order:WVWO-2026-000099").
		WillReturnRows(sqlmock.NewRows([]string{"record"}))

	if _, err := repo.Get("WVWO-2026-000099"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresPutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO order_status").
		WithArgs("order:WVWO-2026-000042", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Put(paidRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresListByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	disputed := paidRecord()
	disputed.Status = StatusDisputed
	raw, _ := json.Marshal(disputed)
	rows := sqlmock.NewRows([]string{"record"}).AddRow(raw)
	mock.ExpectQuery("SELECT record FROM order_status").
		WithArgs("disputed").
		WillReturnRows(rows)

	records, err := repo.ListByStatus(StatusDisputed)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(records) != 1 || records[0].Status != StatusDisputed {
		t.Fatalf("unexpected records %+v", records)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
