package forms

import (
	"context"
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoteriaInput is the lottery sheet as typed. Money fields accept "$1,234.50"
// or "USD 1234.50".
type LoteriaInput struct {
	FormDate         string `json:"form_date"`
	EmployeeName     string `json:"employee_name"`
	StartingBalance  string `json:"starting_balance"`
	Scratches10In    string `json:"scratches_10_in"`
	ScratchesOtherIn string `json:"scratches_other_in"`
	DrawGameSales    string `json:"draw_game_sales"`
	CashDeposit      string `json:"cash_deposit"`
	DrawGameCashes   string `json:"draw_game_cashes"`
	DrawPromoPlays   string `json:"draw_promo_plays"`
	DrawGameCancels  string `json:"draw_game_cancels"`
	InstantCashes    string `json:"instant_cashes"`
	ToDeposit        string `json:"to_deposit"`
	Refund           string `json:"refund"`
	CashInDrawer     string `json:"cash_in_drawer"`
	Balance          string `json:"balance"`
	Notes            string `json:"notes"`
}

// CashPaymentInput is one cash payment out of the drawer
type CashPaymentInput struct {
	PayDate    string `json:"pay_date"`
	Amount     string `json:"amount"`
	GivenTo    string `json:"given_to"`
	Reason     string `json:"reason"`
	GivenBy    string `json:"given_by"`
	ReceivedBy string `json:"received_by"`
}

// TransferInput is one transfer line between departments
type TransferInput struct {
	TransferDate string `json:"transfer_date"`
	DeptFrom     string `json:"dept_from"`
	DeptTo       string `json:"dept_to"`
	ItemCode     string `json:"item_code"`
	Description  string `json:"description"`
	Qty          string `json:"qty"`
	Price        string `json:"price"`
}

// DailyInput is the end-of-shift summary
type DailyInput struct {
	FormDate       string `json:"form_date"`
	Shift          string `json:"shift"`
	Responsible    string `json:"responsible"`
	BalanceInicial string `json:"balance_inicial"`
	TotalEntradas  string `json:"total_entradas"`
	TotalSalidas   string `json:"total_salidas"`
	CashOnSafe     string `json:"cash_on_safe"`
	BalanceFinal   string `json:"balance_final"`
	Notes          string `json:"notes"`
}

// SavedEntry identifies a committed sheet row
type SavedEntry struct {
	Type      forms.FormType `json:"type"`
	ID        uuid.UUID      `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Message   string         `json:"message"`
}

// SheetsService saves the Lotería, cash payment, transfer and daily sheets
type SheetsService struct {
	writer    forms.SheetWriter
	publisher shared.EventPublisher
	metrics   *telemetry.FormMetrics
	logger    *zap.Logger
}

// NewSheetsService creates a new SheetsService
func NewSheetsService(writer forms.SheetWriter, publisher shared.EventPublisher, metrics *telemetry.FormMetrics, logger *zap.Logger) *SheetsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsService{writer: writer, publisher: publisher, metrics: metrics, logger: logger}
}

func newHeader(session *identity.Session) forms.EntryHeader {
	h := forms.EntryHeader{CreatedBy: session.UserID}
	if org := session.OrgID(); org != nil {
		id := *org
		h.OrgID = &id
	}
	return h
}

func checkSheet(session *identity.Session, date string) error {
	if err := CheckSubmitter(session); err != nil {
		return err
	}
	if strings.TrimSpace(date) == "" {
		return forms.ErrDateRequired
	}
	return nil
}

// SubmitLoteria saves a Lotería sheet
func (s *SheetsService) SubmitLoteria(ctx context.Context, session *identity.Session, in LoteriaInput) (*SavedEntry, error) {
	return s.save(ctx, session, forms.FormLoteria, in.FormDate, func(ctx context.Context, h forms.EntryHeader) (forms.InsertedRow, error) {
		return s.writer.InsertLoteria(ctx, &forms.LoteriaEntry{
			EntryHeader:           h,
			FormDate:              strings.TrimSpace(in.FormDate),
			EmployeeName:          forms.NullIfBlank(in.EmployeeName),
			StartingBalanceCents:  forms.ParseLooseCents(in.StartingBalance),
			Scratches10InCents:    forms.ParseLooseCents(in.Scratches10In),
			ScratchesOtherInCents: forms.ParseLooseCents(in.ScratchesOtherIn),
			DrawGameSalesCents:    forms.ParseLooseCents(in.DrawGameSales),
			CashDepositCents:      forms.ParseLooseCents(in.CashDeposit),
			DrawGameCashesCents:   forms.ParseLooseCents(in.DrawGameCashes),
			DrawPromoPlaysCents:   forms.ParseLooseCents(in.DrawPromoPlays),
			DrawGameCancelsCents:  forms.ParseLooseCents(in.DrawGameCancels),
			InstantCashesCents:    forms.ParseLooseCents(in.InstantCashes),
			ToDepositCents:        forms.ParseLooseCents(in.ToDeposit),
			RefundCents:           forms.ParseLooseCents(in.Refund),
			CashInDrawerCents:     forms.ParseLooseCents(in.CashInDrawer),
			BalanceCents:          forms.ParseLooseCents(in.Balance),
			Notes:                 forms.NullIfBlank(in.Notes),
		})
	})
}

// SubmitCashPayment saves a cash payment
func (s *SheetsService) SubmitCashPayment(ctx context.Context, session *identity.Session, in CashPaymentInput) (*SavedEntry, error) {
	return s.save(ctx, session, forms.FormCashPayment, in.PayDate, func(ctx context.Context, h forms.EntryHeader) (forms.InsertedRow, error) {
		return s.writer.InsertCashPayment(ctx, &forms.CashPaymentEntry{
			EntryHeader: h,
			PayDate:     strings.TrimSpace(in.PayDate),
			AmountCents: forms.ParseLooseCents(in.Amount),
			GivenTo:     forms.NullIfBlank(in.GivenTo),
			Reason:      forms.NullIfBlank(in.Reason),
			GivenBy:     forms.NullIfBlank(in.GivenBy),
			ReceivedBy:  forms.NullIfBlank(in.ReceivedBy),
		})
	})
}

// SubmitTransfer saves a transfer line. An unparseable quantity counts as zero.
func (s *SheetsService) SubmitTransfer(ctx context.Context, session *identity.Session, in TransferInput) (*SavedEntry, error) {
	return s.save(ctx, session, forms.FormTransfer, in.TransferDate, func(ctx context.Context, h forms.EntryHeader) (forms.InsertedRow, error) {
		line := forms.NewTransferLine(h, strings.TrimSpace(in.TransferDate), forms.ParseQuantity(in.Qty), forms.ParseLooseCents(in.Price))
		line.DeptFrom = forms.NullIfBlank(in.DeptFrom)
		line.DeptTo = forms.NullIfBlank(in.DeptTo)
		line.ItemCode = forms.NullIfBlank(in.ItemCode)
		line.Description = forms.NullIfBlank(in.Description)
		return s.writer.InsertTransfer(ctx, line)
	})
}

// SubmitDaily saves a daily summary. The shift must be manana or noche.
func (s *SheetsService) SubmitDaily(ctx context.Context, session *identity.Session, in DailyInput) (*SavedEntry, error) {
	shift, ok := forms.ParseShift(in.Shift)
	if !ok && checkSheet(session, in.FormDate) == nil {
		s.metrics.RecordSubmission(ctx, string(forms.FormDaily), telemetry.OutcomeInvalid, 0)
		return nil, forms.ErrInvalidShift
	}
	return s.save(ctx, session, forms.FormDaily, in.FormDate, func(ctx context.Context, h forms.EntryHeader) (forms.InsertedRow, error) {
		return s.writer.InsertDaily(ctx, &forms.DailyEntry{
			EntryHeader:         h,
			FormDate:            strings.TrimSpace(in.FormDate),
			Shift:               shift,
			Responsible:         forms.NullIfBlank(in.Responsible),
			BalanceInicialCents: forms.ParseLooseCents(in.BalanceInicial),
			TotalEntradasCents:  forms.ParseLooseCents(in.TotalEntradas),
			TotalSalidasCents:   forms.ParseLooseCents(in.TotalSalidas),
			CashOnSafeCents:     forms.ParseLooseCents(in.CashOnSafe),
			BalanceFinalCents:   forms.ParseLooseCents(in.BalanceFinal),
			Notes:               forms.NullIfBlank(in.Notes),
		})
	})
}
