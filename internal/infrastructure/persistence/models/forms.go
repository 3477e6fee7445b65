package models

import (
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SafeEntryRow is a form_safe row as read back by the dual-schema select.
// The date and time columns are aliased to form_date / form_time and cast
// to text whatever the deployed layout.
type SafeEntryRow struct {
	ID           uuid.UUID  `gorm:"column:id"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	OrgID        *uuid.UUID `gorm:"column:org_id"`
	CreatedBy    uuid.UUID  `gorm:"column:created_by"`
	FormDate     string     `gorm:"column:form_date"`
	FormTime     *string    `gorm:"column:form_time"`
	EmployeeName string     `gorm:"column:employee_name"`
	Bills100     int64      `gorm:"column:bills_100_qty"`
	Bills50      int64      `gorm:"column:bills_50_qty"`
	Bills20      int64      `gorm:"column:bills_20_qty"`
	Bills10      int64      `gorm:"column:bills_10_qty"`
	Bills5       int64      `gorm:"column:bills_5_qty"`
	Bills1       int64      `gorm:"column:bills_1_qty"`
	Quarters     int64      `gorm:"column:quarters_qty"`
	Dimes        int64      `gorm:"column:dimes_qty"`
	Nickels      int64      `gorm:"column:nickels_qty"`
	Pennies      int64      `gorm:"column:pennies_qty"`
	Reg1Cents    int64      `gorm:"column:reg1_amount_cents"`
	Reg2Cents    int64      `gorm:"column:reg2_amount_cents"`
	Notes        *string    `gorm:"column:notes"`
}

// ToDomain converts the row to a forms.CashCountEntry
func (r *SafeEntryRow) ToDomain() *forms.CashCountEntry {
	return &forms.CashCountEntry{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		OrgID:        r.OrgID,
		SubmittedBy:  r.CreatedBy,
		EntryDate:    r.FormDate,
		EntryTime:    r.FormTime,
		EmployeeName: r.EmployeeName,
		Counts: forms.DenominationCounts{
			Bills100: r.Bills100,
			Bills50:  r.Bills50,
			Bills20:  r.Bills20,
			Bills10:  r.Bills10,
			Bills5:   r.Bills5,
			Bills1:   r.Bills1,
			Quarters: r.Quarters,
			Dimes:    r.Dimes,
			Nickels:  r.Nickels,
			Pennies:  r.Pennies,
		},
		Reg1Cents: r.Reg1Cents,
		Reg2Cents: r.Reg2Cents,
		Notes:     r.Notes,
	}
}

// RecentSafeRow is the projection used by the recent entries list
type RecentSafeRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	FormDate     string    `gorm:"column:form_date"`
	EmployeeName string    `gorm:"column:employee_name"`
	Notes        *string   `gorm:"column:notes"`
}

// ToDomain converts the row to a forms.RecentEntry
func (r *RecentSafeRow) ToDomain() forms.RecentEntry {
	return forms.RecentEntry{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Type:         forms.RecentEntryTypeSafe,
		FormDate:     r.FormDate,
		EmployeeName: r.EmployeeName,
		Notes:        r.Notes,
	}
}

func sheetFrom(h forms.EntryHeader) SheetModel {
	return SheetModel{OrgID: h.OrgID, CreatedBy: h.CreatedBy}
}

// Inserted returns the database-assigned id and timestamp
func (m *SheetModel) Inserted() forms.InsertedRow {
	return forms.InsertedRow{ID: m.ID, CreatedAt: m.CreatedAt}
}

// LoteriaModel maps form_loteria
type LoteriaModel struct {
	SheetModel
	FormDate              string  `gorm:"type:date;not null"`
	EmployeeName          *string `gorm:"type:varchar(200)"`
	StartingBalanceCents  int64
	Scratches10InCents    int64 `gorm:"column:scratches_10_in_cents"`
	ScratchesOtherInCents int64
	DrawGameSalesCents    int64
	CashDepositCents      int64
	DrawGameCashesCents   int64
	DrawPromoPlaysCents   int64
	DrawGameCancelsCents  int64
	InstantCashesCents    int64
	ToDepositCents        int64
	RefundCents           int64
	CashInDrawerCents     int64
	BalanceCents          int64
	Notes                 *string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoteriaModel) TableName() string {
	return "form_loteria"
}

// LoteriaModelFromDomain creates a LoteriaModel from a forms.LoteriaEntry
func LoteriaModelFromDomain(e *forms.LoteriaEntry) *LoteriaModel {
	return &LoteriaModel{
		SheetModel:            sheetFrom(e.EntryHeader),
		FormDate:              e.FormDate,
		EmployeeName:          e.EmployeeName,
		StartingBalanceCents:  e.StartingBalanceCents,
		Scratches10InCents:    e.Scratches10InCents,
		ScratchesOtherInCents: e.ScratchesOtherInCents,
		DrawGameSalesCents:    e.DrawGameSalesCents,
		CashDepositCents:      e.CashDepositCents,
		DrawGameCashesCents:   e.DrawGameCashesCents,
		DrawPromoPlaysCents:   e.DrawPromoPlaysCents,
		DrawGameCancelsCents:  e.DrawGameCancelsCents,
		InstantCashesCents:    e.InstantCashesCents,
		ToDepositCents:        e.ToDepositCents,
		RefundCents:           e.RefundCents,
		CashInDrawerCents:     e.CashInDrawerCents,
		BalanceCents:          e.BalanceCents,
		Notes:                 e.Notes,
	}
}

// CashPaymentModel maps form_cash_payment
type CashPaymentModel struct {
	SheetModel
	PayDate     string `gorm:"type:date;not null"`
	AmountCents int64
	GivenTo     *string
	Reason      *string
	GivenBy     *string
	ReceivedBy  *string
}

// TableName returns the table name for GORM
func (CashPaymentModel) TableName() string {
	return "form_cash_payment"
}

// CashPaymentModelFromDomain creates a CashPaymentModel from a forms.CashPaymentEntry
func CashPaymentModelFromDomain(e *forms.CashPaymentEntry) *CashPaymentModel {
	return &CashPaymentModel{
		SheetModel:  sheetFrom(e.EntryHeader),
		PayDate:     e.PayDate,
		AmountCents: e.AmountCents,
		GivenTo:     e.GivenTo,
		Reason:      e.Reason,
		GivenBy:     e.GivenBy,
		ReceivedBy:  e.ReceivedBy,
	}
}

// TransferModel maps form_transfer
type TransferModel struct {
	SheetModel
	TransferDate string `gorm:"type:date;not null"`
	DeptFrom     *string
	DeptTo       *string
	ItemCode     *string
	Description  *string
	Qty          *decimal.Decimal `gorm:"type:numeric(18,4)"`
	PriceCents   *int64
	TotalCents   *int64
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "form_transfer"
}

// TransferModelFromDomain creates a TransferModel from a forms.TransferEntry
func TransferModelFromDomain(e *forms.TransferEntry) *TransferModel {
	return &TransferModel{
		SheetModel:   sheetFrom(e.EntryHeader),
		TransferDate: e.TransferDate,
		DeptFrom:     e.DeptFrom,
		DeptTo:       e.DeptTo,
		ItemCode:     e.ItemCode,
		Description:  e.Description,
		Qty:          e.Qty,
		PriceCents:   e.PriceCents,
		TotalCents:   e.TotalCents,
	}
}

// DailyModel maps form_daily
type DailyModel struct {
	SheetModel
	FormDate            string `gorm:"type:date;not null"`
	Shift               string `gorm:"type:varchar(10);not null"`
	Responsible         *string
	BalanceInicialCents int64
	TotalEntradasCents  int64
	TotalSalidasCents   int64
	CashOnSafeCents     int64
	BalanceFinalCents   int64
	Notes               *string
}

// TableName returns the table name for GORM
func (DailyModel) TableName() string {
	return "form_daily"
}

// DailyModelFromDomain creates a DailyModel from a forms.DailyEntry
func DailyModelFromDomain(e *forms.DailyEntry) *DailyModel {
	return &DailyModel{
		SheetModel:          sheetFrom(e.EntryHeader),
		FormDate:            e.FormDate,
		Shift:               string(e.Shift),
		Responsible:         e.Responsible,
		BalanceInicialCents: e.BalanceInicialCents,
		TotalEntradasCents:  e.TotalEntradasCents,
		TotalSalidasCents:   e.TotalSalidasCents,
		CashOnSafeCents:     e.CashOnSafeCents,
		BalanceFinalCents:   e.BalanceFinalCents,
		Notes:               e.Notes,
	}
}
