package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sampleSafeEntry() *forms.CashCountEntry {
	org := uuid.New()
	return &forms.CashCountEntry{
		OrgID:        &org,
		SubmittedBy:  uuid.New(),
		EntryDate:    "2026-03-14",
		EmployeeName: "Ana",
		Counts:       forms.DenominationCounts{Bills100: 2, Quarters: 4},
		Reg1Cents:    12345,
	}
}

func TestInsertSafeSQL(t *testing.T) {
	current := insertSafeSQL(forms.SchemaCurrent)
	assert.Contains(t, current, `"form_date", "form_time"`)
	assert.Contains(t, current, "RETURNING id, created_at")
	assert.Equal(t, 18, strings.Count(current, "?"))

	legacy := insertSafeSQL(forms.SchemaLegacy)
	assert.Contains(t, legacy, `"date", "time"`)
	assert.NotContains(t, legacy, "form_date")
}

func TestGormSafeEntryRepository_Insert(t *testing.T) {
	t.Run("returns database assigned id", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		id := uuid.New()
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO form_safe \(org_id, created_by, "form_date", "form_time", employee_name`).
			WithArgs(anyArgs(18)...).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

		row, err := repo.Insert(context.Background(), sampleSafeEntry(), forms.SchemaCurrent)
		require.NoError(t, err)
		assert.Equal(t, id, row.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pgx undefined column becomes a classifiable StoreError", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		mock.ExpectQuery(`INSERT INTO form_safe \(org_id, created_by, "date", "time"`).
			WithArgs(anyArgs(18)...).
			WillReturnError(&pgconn.PgError{Code: "42703", Message: `column "date" of relation "form_safe" does not exist`})

		_, err := repo.Insert(context.Background(), sampleSafeEntry(), forms.SchemaLegacy)
		require.Error(t, err)

		var se *forms.StoreError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "42703", se.Code)
		assert.True(t, forms.IsSchemaMismatch(err, forms.SchemaLegacy))
		assert.False(t, forms.IsSchemaMismatch(err, forms.SchemaCurrent))
	})

	t.Run("lib/pq errors are translated too", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		mock.ExpectQuery(`INSERT INTO form_safe`).
			WithArgs(anyArgs(18)...).
			WillReturnError(&pq.Error{Code: "42501", Message: "permission denied for table form_safe"})

		_, err := repo.Insert(context.Background(), sampleSafeEntry(), forms.SchemaCurrent)
		var se *forms.StoreError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "42501", se.Code)
		assert.Equal(t, "permission denied for table form_safe", se.Message)
		assert.False(t, forms.IsSchemaMismatch(err, forms.SchemaCurrent))
	})
}

func TestGormSafeEntryRepository_Recent(t *testing.T) {
	t.Run("org scoped, current layout", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		org := uuid.New()
		id := uuid.New()
		notes := "short $2"
		mock.ExpectQuery(`SELECT id, created_at, "form_date"::text AS form_date, employee_name, notes FROM "form_safe" WHERE org_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs(org, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "form_date", "employee_name", "notes"}).
				AddRow(id, time.Now(), "2026-03-14", "Ana", notes))

		entries, err := repo.Recent(context.Background(), &org, 20, forms.SchemaCurrent)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, forms.RecentEntryTypeSafe, entries[0].Type)
		assert.Equal(t, "2026-03-14", entries[0].FormDate)
		require.NotNil(t, entries[0].Notes)
		assert.Equal(t, notes, *entries[0].Notes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unscoped, legacy layout", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		mock.ExpectQuery(`SELECT id, created_at, "date"::text AS form_date, employee_name, notes FROM "form_safe" ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "form_date", "employee_name", "notes"}))

		entries, err := repo.Recent(context.Background(), nil, 20, forms.SchemaLegacy)
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSafeEntryRepository_FindByID(t *testing.T) {
	columns := []string{
		"id", "created_at", "org_id", "created_by", "form_date", "form_time", "employee_name",
		"bills_100_qty", "bills_50_qty", "bills_20_qty", "bills_10_qty", "bills_5_qty", "bills_1_qty",
		"quarters_qty", "dimes_qty", "nickels_qty", "pennies_qty",
		"reg1_amount_cents", "reg2_amount_cents", "notes",
	}

	t.Run("maps the row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT .*"form_date"::text AS form_date, "form_time"::text AS form_time.* FROM "form_safe" WHERE id = \$1 LIMIT \$2`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				id, time.Now(), nil, uuid.New(), "2026-03-14", "09:30:00", "Ana",
				2, 0, 0, 0, 0, 0, 4, 0, 0, 0, 25000, 12345, nil,
			))

		entry, err := repo.FindByID(context.Background(), id, nil, forms.SchemaCurrent)
		require.NoError(t, err)
		assert.Equal(t, id, entry.ID)
		assert.Equal(t, int64(2), entry.Counts.Bills100)
		assert.Equal(t, int64(4), entry.Counts.Quarters)
		require.NotNil(t, entry.EntryTime)
		assert.Equal(t, "09:30:00", *entry.EntryTime)
		assert.Equal(t, int64(20100+25000+12345), entry.Totals().GrandCents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSafeEntryRepository(db)

		id := uuid.New()
		org := uuid.New()
		mock.ExpectQuery(`FROM "form_safe" WHERE id = \$1 AND org_id = \$2 LIMIT \$3`).
			WithArgs(id, org, 1).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.FindByID(context.Background(), id, &org, forms.SchemaCurrent)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsExpectedError(t *testing.T) {
	assert.True(t, IsExpectedError(&pgconn.PgError{Code: "42703"}))
	assert.True(t, IsExpectedError(&pq.Error{Code: "23505"}))
	assert.False(t, IsExpectedError(&pgconn.PgError{Code: "42501"}))
	assert.False(t, IsExpectedError(errors.New("connection refused")))
	assert.False(t, IsExpectedError(nil))
}

func TestIsExpectedError_DowngradesGormLog(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := logger.NewGormLogger(zap.New(core), gormlogger.Info, logger.WithExpectedErrors(IsExpectedError))
	query := func() (string, int64) { return `INSERT INTO form_safe ("form_date") VALUES ($1)`, 0 }

	l.Trace(context.Background(), time.Now(), query, &pgconn.PgError{Code: "42703", Message: `column "form_date" does not exist`})
	l.Trace(context.Background(), time.Now(), query, &pgconn.PgError{Code: "42501", Message: "permission denied"})

	assert.Equal(t, 1, recorded.FilterMessage("SQL Error (expected)").Len())
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
}
