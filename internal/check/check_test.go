package check

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockDB creates a sqlmock database with automatic cleanup and
// expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func TestEnsureMarkerTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS udev_markers").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c := NewWithDB(db)
	if err := c.EnsureMarkerTable(context.Background()); err != nil {
		t.Fatalf("EnsureMarkerTable: %v", err)
	}
}

func TestWriteMarker(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO udev_markers \(id\) VALUES \(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := NewWithDB(db)
	id, err := c.WriteMarker(context.Background())
	if err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}
	if !strings.HasPrefix(id, "mk-") {
		t.Errorf("marker id = %q, want mk- prefix", id)
	}
}

func TestWriteMarkerInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO udev_markers`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("read-only transaction"))

	c := NewWithDB(db)
	if _, err := c.WriteMarker(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestVerifyMarker(t *testing.T) {
	for _, tc := range []struct {
		name    string
		exists  bool
		wantErr error
	}{
		{name: "Present", exists: true},
		{name: "Missing", exists: false, wantErr: ErrMarkerNotFound},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM udev_markers WHERE id = \$1\)`).
				WithArgs("mk-abc123XYZ0").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			c := NewWithDB(db)
			err := c.VerifyMarker(context.Background(), "mk-abc123XYZ0")
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("VerifyMarker: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("VerifyMarker error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestReport(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT current_database\(\), current_user`).
		WillReturnRows(sqlmock.NewRows([]string{"current_database", "current_user"}).
			AddRow("unistate_dev", "unistate_dev"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM udev_markers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	c := NewWithDB(db)
	r, err := c.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Database != "unistate_dev" || r.User != "unistate_dev" || r.Markers != 3 {
		t.Errorf("Report = %+v", r)
	}
}
