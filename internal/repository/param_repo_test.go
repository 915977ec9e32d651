package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newParamMock(t *testing.T) (*ParamSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewParamSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestParamSQLite_Get(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		mockExpect func(sqlmock.Sqlmock)
		wantValue  string
		wantOK     bool
		wantErr    bool
	}{
		{
			name:  "present",
			param: "room",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectParamSQL)).
					WithArgs("room").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("ROOM_003"))
			},
			wantValue: "ROOM_003",
			wantOK:    true,
		},
		{
			name:  "absent means not initialized",
			param: "water_level",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectParamSQL)).
					WithArgs("water_level").
					WillReturnRows(sqlmock.NewRows([]string{"value"}))
			},
			wantOK: false,
		},
		{
			name:  "query error",
			param: "mode",
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectParamSQL)).
					WithArgs("mode").
					WillReturnError(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := newParamMock(t)
			defer cleanup()
			tc.mockExpect(mock)

			value, ok, err := repo.Get(ctx(t), tc.param)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok != tc.wantOK {
				t.Errorf("ok = %v, want %v", ok, tc.wantOK)
			}
			if value != tc.wantValue {
				t.Errorf("value = %q, want %q", value, tc.wantValue)
			}
		})
	}
}

func TestParamSQLite_Set_Upsert(t *testing.T) {
	repo, mock, cleanup := newParamMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertParamSQL)).
		WithArgs("fan_level", "4", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(ctx(t), "fan_level", "4"); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestParamSQLite_Set_DBError(t *testing.T) {
	repo, mock, cleanup := newParamMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertParamSQL)).
		WithArgs("mode", "sweep", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	if err := repo.Set(ctx(t), "mode", "sweep"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParamSQLite_All(t *testing.T) {
	repo, mock, cleanup := newParamMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"name", "value"}).
		AddRow("room", "ROOM_001").
		AddRow("mode", "sweep_mop")
	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).WillReturnRows(rows)

	got, err := repo.All(ctx(t))
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 2 || got["room"] != "ROOM_001" || got["mode"] != "sweep_mop" {
		t.Errorf("unexpected snapshot: %v", got)
	}
}

func TestParamSQLite_All_Empty(t *testing.T) {
	repo, mock, cleanup := newParamMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}))

	got, err := repo.All(ctx(t))
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty snapshot, got %v", got)
	}
}

func TestParamSQLite_All_ScanError(t *testing.T) {
	repo, mock, cleanup := newParamMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"name", "value"}).
		AddRow(nil, nil) // force scan failure
	mock.ExpectQuery(regexp.QuoteMeta(selectParamsSQL)).WillReturnRows(rows)

	if _, err := repo.All(ctx(t)); err == nil {
		t.Fatal("expected scan error, got nil")
	}
}
