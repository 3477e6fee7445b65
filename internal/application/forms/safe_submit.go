package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is how a submit ended
type Outcome string

const (
	OutcomeSaved   Outcome = "saved"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
	// OutcomeIgnored means another submit of the same instance was in flight
	OutcomeIgnored Outcome = "ignored"
)

// MsgSubmitInFlight is the status of an ignored submit
const MsgSubmitInFlight = "A save for this form is already in progress."

// Result is the outcome of OnSubmit. State is the instance after the
// submit; Phases lists every phase it went through, ending at idle.
type Result struct {
	Outcome   Outcome
	EntryID   uuid.UUID
	Message   string
	Err       error
	State     SafeState
	Phases    []Phase
	Variant   forms.PersistenceSchemaVariant
	Fallback  bool
	CreatedAt time.Time
}

// Saved reports whether a row was written
func (r *Result) Saved() bool {
	return r.Outcome == OutcomeSaved
}

// CheckSubmitter runs the session preconditions shared by every form: a
// signed-in user, and an organization unless the user is an admin.
func CheckSubmitter(session *identity.Session) error {
	if !session.IsAuthenticated() {
		return forms.ErrNotLoggedIn
	}
	if !session.IsAdmin() && session.OrgID() == nil {
		return forms.ErrNoOrgAssigned
	}
	return nil
}

func validateSafe(session *identity.Session, state SafeState) error {
	if err := CheckSubmitter(session); err != nil {
		return err
	}
	if strings.TrimSpace(state.Date) == "" {
		return forms.ErrDateRequired
	}
	if strings.TrimSpace(state.EmployeeName) == "" {
		return forms.ErrEmployeeNameRequired
	}
	return nil
}

// buildEntry turns the raw inputs into the row to insert
func buildEntry(session *identity.Session, state SafeState) *forms.CashCountEntry {
	var orgID *uuid.UUID
	if org := session.OrgID(); org != nil {
		id := *org
		orgID = &id
	}
	return &forms.CashCountEntry{
		OrgID:        orgID,
		SubmittedBy:  session.UserID,
		EntryDate:    strings.TrimSpace(state.Date),
		EntryTime:    forms.NullIfBlank(state.Time),
		EmployeeName: strings.TrimSpace(state.EmployeeName),
		Counts:       forms.CountsFromRaw(state.Counts),
		Reg1Cents:    forms.RegisterCents(state.Reg1),
		Reg2Cents:    forms.RegisterCents(state.Reg2),
		Notes:        forms.NullIfBlank(state.Notes),
	}
}

// OnSubmit validates the instance and writes it once. Validation failures
// never reach storage. A second submit of an instance that is still being
// written is ignored.
func (f *SafeForm) OnSubmit(ctx context.Context, session *identity.Session, state SafeState) Result {
	start := f.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "SafeForm", "OnSubmit",
		telemetry.SpanAttrFormType, string(forms.FormSafe),
		telemetry.SpanAttrFormInstance, state.InstanceID,
	)
	defer span.End()

	res := Result{State: state.clone(), Phases: []Phase{PhaseValidating}}

	if err := validateSafe(session, state); err != nil {
		res.Outcome = OutcomeInvalid
		res.Err = err
		res.Message = err.Error()
		res.State.Status = &Status{Kind: StatusError, Message: err.Error()}
		res.finish(PhaseInvalid)
		f.metrics.RecordSubmission(ctx, string(forms.FormSafe), telemetry.OutcomeInvalid, f.now().Sub(start))
		return res
	}

	key := "safe:" + state.InstanceID
	if state.InstanceID == "" {
		key = "safe:" + uuid.New().String()
	}
	token, acquired, err := f.latch.TryAcquire(ctx, key, f.latchTTL)
	if err != nil {
		f.logger.Error("submission latch unavailable", zap.String("instance_id", state.InstanceID), zap.Error(err))
		telemetry.RecordError(span, err)
		res.fail(fmt.Errorf("submission latch: %w", err))
		f.metrics.RecordSubmission(ctx, string(forms.FormSafe), telemetry.OutcomeFailed, f.now().Sub(start))
		return res
	}
	if !acquired {
		f.logger.Debug("submit ignored, instance in flight", zap.String("instance_id", state.InstanceID))
		res.Outcome = OutcomeIgnored
		res.Message = MsgSubmitInFlight
		res.Phases = nil
		f.metrics.RecordSubmission(ctx, string(forms.FormSafe), telemetry.OutcomeBusy, f.now().Sub(start))
		return res
	}
	defer func() {
		if err := f.latch.Release(context.WithoutCancel(ctx), key, token); err != nil {
			f.logger.Warn("failed to release submission latch", zap.String("key", key), zap.Error(err))
		}
	}()

	res.Phases = append(res.Phases, PhaseSubmitting)
	entry := buildEntry(session, state)

	row, attempt, err := runWithSchemaFallback(ctx, f.selector,
		func(ctx context.Context, v forms.PersistenceSchemaVariant) (forms.InsertedRow, error) {
			return f.writer.Insert(ctx, entry, v)
		})
	res.Variant = attempt.Variant
	res.Fallback = attempt.Fallback
	telemetry.SetAttributes(span, telemetry.SpanAttrSchemaVariant, attempt.Variant.String())
	if attempt.Fallback {
		f.logger.Warn("form_safe layout mismatch, retried with other layout",
			zap.String("missing_column", attempt.Column),
			zap.String("retry_variant", attempt.Variant.String()),
		)
		f.metrics.RecordSchemaFallback(ctx, string(forms.FormSafe), attempt.Variant.String())
	}
	if err != nil {
		f.logger.Error("failed to save safe entry",
			zap.String("instance_id", state.InstanceID),
			zap.String("variant", attempt.Variant.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		res.fail(err)
		f.metrics.RecordSubmission(ctx, string(forms.FormSafe), telemetry.OutcomeFailed, f.now().Sub(start))
		return res
	}

	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	telemetry.SetAttributes(span, telemetry.SpanAttrEntryID, row.ID.String())

	if err := f.publisher.Publish(ctx, forms.NewEntrySavedEvent(forms.FormSafe, row.ID, entry.OrgID, session.UserID)); err != nil {
		f.logger.Warn("failed to publish entry saved", zap.String("entry_id", row.ID.String()), zap.Error(err))
	}

	res.Outcome = OutcomeSaved
	res.EntryID = row.ID
	res.CreatedAt = row.CreatedAt
	res.Message = fmt.Sprintf("Saved. Entry ID: %s", row.ID)
	res.State.Time = f.now().In(f.loc).Format("15:04")
	res.State.Status = &Status{Kind: StatusOK, Message: res.Message}
	res.finish(PhaseSucceeded)

	f.logger.Info("safe entry saved",
		zap.String("entry_id", row.ID.String()),
		zap.String("user_id", session.UserID.String()),
		zap.String("variant", attempt.Variant.String()),
	)
	f.metrics.RecordSubmission(ctx, string(forms.FormSafe), telemetry.OutcomeSaved, f.now().Sub(start))
	return res
}

// fail records a write failure. The message is the storage error verbatim.
func (r *Result) fail(err error) {
	var pe *forms.PersistenceError
	if !errors.As(err, &pe) {
		pe = forms.NewPersistenceError(err)
	}
	r.Outcome = OutcomeFailed
	r.Err = pe
	r.Message = pe.Message
	r.State.Status = &Status{Kind: StatusError, Message: "Save failed: " + pe.Message}
	r.finish(PhaseFailed)
}

func (r *Result) finish(terminal Phase) {
	r.Phases = append(r.Phases, terminal, PhaseIdle)
	r.State.Phase = PhaseIdle
}
