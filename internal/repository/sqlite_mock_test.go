package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

var loadColumns = []string{"id", "source", "path", "success", "error_kind", "error_message", "components", "hotkeys", "loaded_at"}

// TestMigrate_ExecError tests that a failing migration is reported
func TestMigrate_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS config_loads").WillReturnError(errors.New("disk full"))

	if err := repo.migrate(); err == nil {
		t.Error("expected migrate error, got nil")
	}
}

// TestRecordLoad_ExecError tests insert failure propagation
func TestRecordLoad_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO config_loads").
		WithArgs(sqlmock.AnyArg(), "file", sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg(), 1, 0, sqlmock.AnyArg()).
		WillReturnError(errors.New("locked"))

	err := repo.RecordLoad(context.Background(), models.ConfigLoad{Source: models.SourceFile, Success: true, Components: 1})
	if err == nil {
		t.Error("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestListLoads_QueryError tests query failure propagation
func TestListLoads_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM config_loads").WithArgs(defaultListLimit).WillReturnError(errors.New("boom"))

	if _, err := repo.ListLoads(context.Background(), -1); err == nil {
		t.Error("expected error, got nil")
	}
}

// TestListLoads_ScanError tests row scanning error
func TestListLoads_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(loadColumns).
		AddRow("id", "file", nil, true, nil, nil, "not-a-number", 0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM config_loads").WillReturnRows(rows)

	if _, err := repo.ListLoads(context.Background(), 5); err == nil {
		t.Error("expected scan error, got nil")
	}
}

// TestListLoads_RowError tests iteration error propagation
func TestListLoads_RowError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(loadColumns).
		AddRow("id", "file", nil, true, nil, nil, 1, 0, time.Now()).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery("SELECT (.+) FROM config_loads").WillReturnRows(rows)

	if _, err := repo.ListLoads(context.Background(), 5); err == nil {
		t.Error("expected row error, got nil")
	}
}

// TestLastSuccessfulLoad_QueryError tests that non-ErrNoRows errors pass through
func TestLastSuccessfulLoad_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM config_loads").WillReturnError(errors.New("boom"))

	_, err := repo.LastSuccessfulLoad(context.Background())
	if err == nil || err == ErrNotFound {
		t.Errorf("expected raw error, got %v", err)
	}
}

// TestGetSetting_QueryError tests settings read failure
func TestGetSetting_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT value FROM settings").WithArgs("k").WillReturnError(errors.New("boom"))

	if _, err := repo.GetSetting(context.Background(), "k"); err == nil || err == ErrNotFound {
		t.Errorf("expected raw error, got %v", err)
	}
}
