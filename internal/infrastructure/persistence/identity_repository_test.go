package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("find by email lowercases", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE LOWER\(email\) = \$1 ORDER BY .* LIMIT \$2`).
			WithArgs("ana@example.com", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "email_confirmed", "created_at", "updated_at"}).
				AddRow(id, "ana@example.com", "hash", true, time.Now(), time.Now()))

		a, err := NewGormAccountRepository(db).FindByEmail(ctx, "  Ana@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.True(t, a.EmailConfirmed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find by email not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "accounts"`).WillReturnError(gorm.ErrRecordNotFound)

		_, err := NewGormAccountRepository(db).FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("blank email is not found without a query", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		_, err := NewGormAccountRepository(db).FindByEmail(ctx, "   ")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create with profile commits both rows", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		a := &identity.Account{BaseEntity: shared.NewBaseEntity(), Email: "ana@example.com", PasswordHash: "h"}
		p := identity.NewProfile(a.ID, a.Email, identity.RoleUser, nil, "Ana Pérez")

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "accounts"`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO "profiles"`).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, NewGormAccountRepository(db).CreateWithProfile(ctx, a, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back and maps to already exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		a := &identity.Account{BaseEntity: shared.NewBaseEntity(), Email: "ana@example.com", PasswordHash: "h"}
		p := identity.NewProfile(a.ID, a.Email, identity.RoleUser, nil, "")

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "accounts"`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
		mock.ExpectRollback()

		err := NewGormAccountRepository(db).CreateWithProfile(ctx, a, p)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update password on missing row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "accounts" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormAccountRepository(db).UpdatePassword(ctx, &identity.Account{BaseEntity: shared.NewBaseEntity()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProfileRepository(t *testing.T) {
	ctx := context.Background()
	cols := []string{"user_id", "email", "role", "org_id", "is_active", "first_name", "last_name", "full_name", "created_at", "updated_at"}

	t.Run("list recent", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		org := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "profiles" ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(200).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(uuid.New(), "a@x.co", "admin", org, true, "Ana", "P", "Ana P", time.Now(), time.Now()).
				AddRow(uuid.New(), "b@x.co", "user", nil, false, "", "", "", time.Now(), time.Now()))

		profiles, err := NewGormProfileRepository(db).ListRecent(ctx, 200)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.True(t, profiles[0].IsAdmin())
		assert.True(t, profiles[0].HasOrg())
		assert.False(t, profiles[1].HasOrg())
		assert.False(t, profiles[1].IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing profile", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "profiles" SET .* WHERE user_id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 0))

		p := identity.NewProfile(uuid.New(), "a@x.co", identity.RoleUser, nil, "")
		assert.ErrorIs(t, NewGormProfileRepository(db).Update(ctx, p), shared.ErrNotFound)
	})
}

func TestGormOrganizationRepository_ListByName(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "organizations" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(uuid.New(), "Bodega Centro", time.Now(), time.Now()).
			AddRow(uuid.New(), "Bodega Norte", time.Now(), time.Now()))

	orgs, err := NewGormOrganizationRepository(db).ListByName(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Bodega Centro", orgs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
