package forms

import (
	"context"
	"sync/atomic"

	"github.com/cuadre/backend/internal/domain/forms"
)

// SchemaSelector remembers which form_safe column layout last worked. Writes
// and reads start with it, so a database migrated in either direction costs
// at most one failed statement before the selector flips.
type SchemaSelector struct {
	lastGood atomic.Int32
}

// NewSchemaSelector starts with the given layout
func NewSchemaSelector(start forms.PersistenceSchemaVariant) *SchemaSelector {
	s := &SchemaSelector{}
	s.lastGood.Store(int32(start))
	return s
}

// Current returns the layout the next statement will try first
func (s *SchemaSelector) Current() forms.PersistenceSchemaVariant {
	return forms.PersistenceSchemaVariant(s.lastGood.Load())
}

// CurrentLayout names the current layout for health reports
func (s *SchemaSelector) CurrentLayout() string {
	return s.Current().String()
}

func (s *SchemaSelector) remember(v forms.PersistenceSchemaVariant) {
	s.lastGood.Store(int32(v))
}

// schemaAttempt describes how a statement was finally run
type schemaAttempt struct {
	Variant  forms.PersistenceSchemaVariant
	Fallback bool
	Column   string
}

// runWithSchemaFallback runs op with the selector's current layout. When that
// fails because a column of the layout does not exist, op runs exactly once
// more with the other layout. Any other error is returned as is.
func runWithSchemaFallback[T any](
	ctx context.Context,
	sel *SchemaSelector,
	op func(ctx context.Context, v forms.PersistenceSchemaVariant) (T, error),
) (T, schemaAttempt, error) {
	first := sel.Current()
	attempt := schemaAttempt{Variant: first}

	out, err := op(ctx, first)
	if err == nil {
		sel.remember(first)
		return out, attempt, nil
	}
	column, mismatch := forms.MismatchedColumn(err, first)
	if !mismatch {
		return out, attempt, err
	}

	second := first.Other()
	attempt = schemaAttempt{Variant: second, Fallback: true, Column: column}
	out, err = op(ctx, second)
	if err != nil {
		return out, attempt, err
	}
	sel.remember(second)
	return out, attempt, nil
}
