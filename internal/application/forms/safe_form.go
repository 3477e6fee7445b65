// Package forms runs the cash reconciliation forms: the live Safe cuadre
// engine with its submission pipeline, the auxiliary sheets, the recent
// entries list and Safe receipts.
package forms

import (
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase is where a form instance sits in its submit cycle
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInvalid    Phase = "invalid"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Editable Safe fields other than the denomination counts
const (
	FieldDate         = "date"
	FieldTime         = "time"
	FieldEmployeeName = "employee_name"
	FieldReg1         = "reg1"
	FieldReg2         = "reg2"
	FieldNotes        = "notes"
)

// StatusKind colours the status line
type StatusKind string

const (
	StatusOK    StatusKind = "ok"
	StatusError StatusKind = "err"
)

// Status is the message shown under the form
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// SafeState is everything the employee has typed into one Safe form
// instance. Inputs are kept raw; they are coerced only when computing.
type SafeState struct {
	InstanceID   string            `json:"instance_id"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	EmployeeName string            `json:"employee_name"`
	Counts       map[string]string `json:"counts"`
	Reg1         string            `json:"reg1"`
	Reg2         string            `json:"reg2"`
	Notes        string            `json:"notes"`
	Phase        Phase             `json:"phase"`
	Status       *Status           `json:"status,omitempty"`
}

func (s SafeState) clone() SafeState {
	counts := make(map[string]string, len(s.Counts))
	for k, v := range s.Counts {
		counts[k] = v
	}
	s.Counts = counts
	if s.Status != nil {
		st := *s.Status
		s.Status = &st
	}
	return s
}

// ChangeEvent is a single field edit
type ChangeEvent struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// LineView is one rendered denomination row
type LineView struct {
	Key         string                 `json:"key"`
	Label       string                 `json:"label"`
	Kind        forms.DenominationKind `json:"kind"`
	Qty         int64                  `json:"qty"`
	AmountCents int64                  `json:"amount_cents"`
	Amount      string                 `json:"amount"`
}

// SafeView is the rendered form: every line amount, subtotal and the grand
// total, formatted for display.
type SafeView struct {
	Bills             []LineView   `json:"bills"`
	Coins             []LineView   `json:"coins"`
	BillsSubtotal     string       `json:"bills_subtotal"`
	RegistersSubtotal string       `json:"registers_subtotal"`
	CoinsSubtotal     string       `json:"coins_subtotal"`
	Total             string       `json:"total"`
	Totals            forms.Totals `json:"totals"`
	SubmitEnabled     bool         `json:"submit_enabled"`
	Status            *Status      `json:"status,omitempty"`
}

// SafeForm is the Safe cuadre engine. Render and OnChange are pure; OnSubmit
// performs the single write.
type SafeForm struct {
	writer    forms.SafeEntryWriter
	latch     shared.SubmissionLatch
	publisher shared.EventPublisher
	selector  *SchemaSelector
	metrics   *telemetry.FormMetrics
	latchTTL  time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// SafeFormOption configures a SafeForm
type SafeFormOption func(*SafeForm)

// WithFormMetrics records submissions on m
func WithFormMetrics(m *telemetry.FormMetrics) SafeFormOption {
	return func(f *SafeForm) { f.metrics = m }
}

// WithLatchTTL bounds how long a crashed submission holds its instance
func WithLatchTTL(ttl time.Duration) SafeFormOption {
	return func(f *SafeForm) {
		if ttl > 0 {
			f.latchTTL = ttl
		}
	}
}

// WithLocation sets the time zone used for default dates and times
func WithLocation(loc *time.Location) SafeFormOption {
	return func(f *SafeForm) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) SafeFormOption {
	return func(f *SafeForm) { f.now = now }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) SafeFormOption {
	return func(f *SafeForm) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewSafeForm creates the Safe engine
func NewSafeForm(
	writer forms.SafeEntryWriter,
	latch shared.SubmissionLatch,
	publisher shared.EventPublisher,
	selector *SchemaSelector,
	opts ...SafeFormOption,
) *SafeForm {
	f := &SafeForm{
		writer:    writer,
		latch:     latch,
		publisher: publisher,
		selector:  selector,
		latchTTL:  30 * time.Second,
		loc:       time.Local,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.selector == nil {
		f.selector = NewSchemaSelector(forms.SchemaCurrent)
	}
	return f
}

// NewState returns a fresh form instance with today's date, the current
// time, zeroed counts and the session's default employee name.
func (f *SafeForm) NewState(session *identity.Session) SafeState {
	state := SafeState{
		InstanceID: uuid.New().String(),
		Counts:     zeroCounts(),
		Phase:      PhaseIdle,
	}
	f.applyDefaults(&state, session)
	return state
}

// Clear resets every input of the instance and re-applies the defaults
func (f *SafeForm) Clear(state SafeState, session *identity.Session) SafeState {
	cleared := SafeState{
		InstanceID: state.InstanceID,
		Counts:     zeroCounts(),
		Phase:      PhaseIdle,
	}
	if cleared.InstanceID == "" {
		cleared.InstanceID = uuid.New().String()
	}
	f.applyDefaults(&cleared, session)
	return cleared
}

func (f *SafeForm) applyDefaults(state *SafeState, session *identity.Session) {
	now := f.now().In(f.loc)
	state.Date = now.Format(time.DateOnly)
	state.Time = now.Format("15:04")
	if strings.TrimSpace(state.EmployeeName) == "" && session != nil {
		state.EmployeeName = identity.DefaultEmployeeName(session.Profile, session.Email)
	}
}

func zeroCounts() map[string]string {
	counts := make(map[string]string, len(forms.Bills)+len(forms.Coins))
	for _, d := range forms.AllDenominations() {
		counts[d.Key] = "0"
	}
	return counts
}

// OnChange applies one edit and clears the status line. Unknown fields
// leave the inputs untouched.
func (f *SafeForm) OnChange(state SafeState, event ChangeEvent) SafeState {
	next := state.clone()
	next.Status = nil
	if next.Counts == nil {
		next.Counts = zeroCounts()
	}

	switch event.Field {
	case FieldDate:
		next.Date = event.Value
	case FieldTime:
		next.Time = event.Value
	case FieldEmployeeName:
		next.EmployeeName = event.Value
	case FieldReg1:
		next.Reg1 = event.Value
	case FieldReg2:
		next.Reg2 = event.Value
	case FieldNotes:
		next.Notes = event.Value
	default:
		if _, ok := forms.LookupDenomination(event.Field); ok {
			next.Counts[event.Field] = event.Value
		}
	}
	return next
}

// Render computes every amount from the raw inputs
func (f *SafeForm) Render(state SafeState) SafeView {
	counts := forms.CountsFromRaw(state.Counts)
	ledger := forms.Ledger{}.Compute(counts)
	totals := forms.TotalsFrom(ledger, forms.RegisterCents(state.Reg1), forms.RegisterCents(state.Reg2))

	view := SafeView{
		Bills:             lineViews(forms.Bills, counts, ledger),
		Coins:             lineViews(forms.Coins, counts, ledger),
		BillsSubtotal:     forms.FormatCents(totals.BillsCents),
		RegistersSubtotal: forms.FormatCents(totals.RegistersCents),
		CoinsSubtotal:     forms.FormatCents(totals.CoinsCents),
		Total:             forms.FormatCents(totals.GrandCents),
		Totals:            totals,
		SubmitEnabled:     state.Phase != PhaseSubmitting,
		Status:            state.Status,
	}
	return view
}

func lineViews(denoms []forms.Denomination, counts forms.DenominationCounts, ledger forms.LedgerResult) []LineView {
	lines := make([]LineView, len(denoms))
	for i, d := range denoms {
		amount := ledger.Amount(d.Key)
		lines[i] = LineView{
			Key:         d.Key,
			Label:       d.Label,
			Kind:        d.Kind,
			Qty:         counts.Get(d.Key),
			AmountCents: amount,
			Amount:      forms.FormatCents(amount),
		}
	}
	return lines
}
