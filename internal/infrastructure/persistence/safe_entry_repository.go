package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// safeCountColumns lists the quantity columns in DenominationCounts order
var safeCountColumns = []string{
	"bills_100_qty", "bills_50_qty", "bills_20_qty", "bills_10_qty", "bills_5_qty", "bills_1_qty",
	"quarters_qty", "dimes_qty", "nickels_qty", "pennies_qty",
}

// GormSafeEntryRepository reads and writes form_safe. Every statement is
// built for one PersistenceSchemaVariant; the caller decides which.
type GormSafeEntryRepository struct {
	db *gorm.DB
}

// NewGormSafeEntryRepository creates a new GormSafeEntryRepository
func NewGormSafeEntryRepository(db *gorm.DB) *GormSafeEntryRepository {
	return &GormSafeEntryRepository{db: db}
}

// returnedRow receives RETURNING id, created_at
type returnedRow struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

func insertSafeSQL(variant forms.PersistenceSchemaVariant) string {
	cols := append([]string{
		"org_id", "created_by",
		quoteIdent(variant.DateColumn()), quoteIdent(variant.TimeColumn()),
		"employee_name",
	}, safeCountColumns...)
	cols = append(cols, "reg1_amount_cents", "reg2_amount_cents", "notes")

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO form_safe (%s) VALUES (%s) RETURNING id, created_at",
		strings.Join(cols, ", "), placeholders)
}

// Insert writes one entry and returns the id and timestamp the database
// assigned. Failures come back as *forms.StoreError.
func (r *GormSafeEntryRepository) Insert(ctx context.Context, e *forms.CashCountEntry, variant forms.PersistenceSchemaVariant) (forms.InsertedRow, error) {
	c := e.Counts
	args := []any{
		e.OrgID, e.SubmittedBy, e.EntryDate, e.EntryTime, e.EmployeeName,
		c.Bills100, c.Bills50, c.Bills20, c.Bills10, c.Bills5, c.Bills1,
		c.Quarters, c.Dimes, c.Nickels, c.Pennies,
		e.Reg1Cents, e.Reg2Cents, e.Notes,
	}

	var row returnedRow
	res := r.db.WithContext(ctx).Raw(insertSafeSQL(variant), args...).Scan(&row)
	if res.Error != nil {
		return forms.InsertedRow{}, toStoreError(res.Error)
	}
	if res.RowsAffected == 0 || row.ID == uuid.Nil {
		return forms.InsertedRow{}, &forms.StoreError{Message: "insert returned no row"}
	}
	return forms.InsertedRow{ID: row.ID, CreatedAt: row.CreatedAt}, nil
}

// dateTimeSelect aliases the variant's columns to form_date / form_time
func dateTimeSelect(variant forms.PersistenceSchemaVariant) string {
	return fmt.Sprintf("%s::text AS form_date, %s::text AS form_time",
		quoteIdent(variant.DateColumn()), quoteIdent(variant.TimeColumn()))
}

// Recent returns the newest entries, restricted to orgID when it is set
func (r *GormSafeEntryRepository) Recent(ctx context.Context, orgID *uuid.UUID, limit int, variant forms.PersistenceSchemaVariant) ([]forms.RecentEntry, error) {
	query := r.db.WithContext(ctx).
		Table("form_safe").
		Select(fmt.Sprintf("id, created_at, %s::text AS form_date, employee_name, notes", quoteIdent(variant.DateColumn())))
	if orgID != nil {
		query = query.Where("org_id = ?", *orgID)
	}

	var rows []models.RecentSafeRow
	if err := query.Order("created_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, toStoreError(err)
	}

	out := make([]forms.RecentEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindByID loads one entry. A set orgID must match the entry's org.
func (r *GormSafeEntryRepository) FindByID(ctx context.Context, id uuid.UUID, orgID *uuid.UUID, variant forms.PersistenceSchemaVariant) (*forms.CashCountEntry, error) {
	cols := append([]string{"id", "created_at", "org_id", "created_by", dateTimeSelect(variant), "employee_name"}, safeCountColumns...)
	cols = append(cols, "reg1_amount_cents", "reg2_amount_cents", "notes")

	query := r.db.WithContext(ctx).
		Table("form_safe").
		Select(strings.Join(cols, ", ")).
		Where("id = ?", id)
	if orgID != nil {
		query = query.Where("org_id = ?", *orgID)
	}

	var rows []models.SafeEntryRow
	if err := query.Limit(1).Scan(&rows).Error; err != nil {
		return nil, toStoreError(err)
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return rows[0].ToDomain(), nil
}

var (
	_ forms.SafeEntryWriter = (*GormSafeEntryRepository)(nil)
	_ forms.SafeEntryReader = (*GormSafeEntryRepository)(nil)
)
