package persistence

import (
	"context"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSheetRepository inserts the auxiliary sheets
type GormSheetRepository struct {
	db *gorm.DB
}

// NewGormSheetRepository creates a new GormSheetRepository
func NewGormSheetRepository(db *gorm.DB) *GormSheetRepository {
	return &GormSheetRepository{db: db}
}

type insertable interface {
	Inserted() forms.InsertedRow
}

func (r *GormSheetRepository) create(ctx context.Context, model insertable) (forms.InsertedRow, error) {
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return forms.InsertedRow{}, toStoreError(err)
	}
	return model.Inserted(), nil
}

// InsertLoteria writes a form_loteria row
func (r *GormSheetRepository) InsertLoteria(ctx context.Context, e *forms.LoteriaEntry) (forms.InsertedRow, error) {
	return r.create(ctx, models.LoteriaModelFromDomain(e))
}

// InsertCashPayment writes a form_cash_payment row
func (r *GormSheetRepository) InsertCashPayment(ctx context.Context, e *forms.CashPaymentEntry) (forms.InsertedRow, error) {
	return r.create(ctx, models.CashPaymentModelFromDomain(e))
}

// InsertTransfer writes a form_transfer row
func (r *GormSheetRepository) InsertTransfer(ctx context.Context, e *forms.TransferEntry) (forms.InsertedRow, error) {
	return r.create(ctx, models.TransferModelFromDomain(e))
}

// InsertDaily writes a form_daily row
func (r *GormSheetRepository) InsertDaily(ctx context.Context, e *forms.DailyEntry) (forms.InsertedRow, error) {
	return r.create(ctx, models.DailyModelFromDomain(e))
}

var _ forms.SheetWriter = (*GormSheetRepository)(nil)
