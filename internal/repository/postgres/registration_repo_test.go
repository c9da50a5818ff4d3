package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/domain"
)

var registrationCols = []string{"id", "event_id", "user_id", "email", "name", "department", "section", "year", "registered_at"}

func TestRegistrationRepository_Create(t *testing.T) {
	now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	reg := &domain.Registration{
		ID: "r1", EventID: "e1", UserID: "u1", Email: "bob@example.com", Name: "Bob",
		Department: "ECE", Section: "B", Year: "3", RegisteredAt: now,
	}

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WithArgs("r1", "e1", "u1", "bob@example.com", "Bob", "ECE", "B", "3", now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate returns ErrAlreadyRegistered",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			errIs: domain.ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewRegistrationRepository(db).Create(context.Background(), reg)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_Lists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE event_id = \$1`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM registrations\s+WHERE event_id = \$1\s+ORDER BY registered_at`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows(registrationCols).
			AddRow("r1", "e1", "u1", "a@example.com", "A", "", "", "", now).
			AddRow("r2", "e1", "u2", "b@example.com", "B", "", "", "", now))
	mock.ExpectQuery(`FROM registrations\s+WHERE user_id = \$1`).
		WithArgs("u3").
		WillReturnRows(sqlmock.NewRows(registrationCols))

	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	n, err := repo.CountByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byEvent, err := repo.ListByEvent(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	assert.Equal(t, "u2", byEvent[1].UserID)

	byUser, err := repo.ListByUser(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, byUser)
	assert.NotNil(t, byUser)
	require.NoError(t, mock.ExpectationsWereMet())
}
