package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Submission outcomes.
const (
	OutcomeSaved   = "saved"
	OutcomeInvalid = "invalid"
	OutcomeBusy    = "busy"
	OutcomeFailed  = "failed"
)

// FormMetrics counts form submissions and schema fallbacks.
type FormMetrics struct {
	submissions     *Counter
	schemaFallbacks *Counter
	submitDuration  *Histogram
}

// NewFormMetrics registers the form instruments on meter.
func NewFormMetrics(meter metric.Meter) (*FormMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	submissions, err := NewCounter(meter, "cuadre_form_submissions_total",
		"Form submissions by form type and outcome", "{submission}")
	if err != nil {
		return nil, err
	}
	fallbacks, err := NewCounter(meter, "cuadre_form_schema_fallbacks_total",
		"Inserts retried with the other column layout", "{retry}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, "cuadre_form_submit_duration_seconds",
		"Submission latency including retries", HTTPDurationBuckets)
	if err != nil {
		return nil, err
	}
	return &FormMetrics{
		submissions:     submissions,
		schemaFallbacks: fallbacks,
		submitDuration:  duration,
	}, nil
}

// RecordSubmission records one finished submission. A nil receiver is a no-op.
func (m *FormMetrics) RecordSubmission(ctx context.Context, formType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.Inc(ctx, AttrFormType.String(formType), AttrOutcome.String(outcome))
	m.submitDuration.RecordDuration(ctx, elapsed, AttrFormType.String(formType))
}

// RecordSchemaFallback records a retry that switched to variant.
func (m *FormMetrics) RecordSchemaFallback(ctx context.Context, formType, variant string) {
	if m == nil {
		return
	}
	m.schemaFallbacks.Inc(ctx, AttrFormType.String(formType), AttrSchemaVariant.String(variant))
}
