package forms

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceSchemaVariant(t *testing.T) {
	assert.Equal(t, "form_date", SchemaCurrent.DateColumn())
	assert.Equal(t, "form_time", SchemaCurrent.TimeColumn())
	assert.Equal(t, "date", SchemaLegacy.DateColumn())
	assert.Equal(t, "time", SchemaLegacy.TimeColumn())
	assert.Equal(t, SchemaLegacy, SchemaCurrent.Other())
	assert.Equal(t, SchemaCurrent, SchemaLegacy.Other())
	assert.Equal(t, SchemaLegacy, ParseSchemaVariant(" Legacy "))
	assert.Equal(t, SchemaCurrent, ParseSchemaVariant("whatever"))
}

func TestIsSchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		variant PersistenceSchemaVariant
		want    bool
	}{
		{
			name:    "undefined column code",
			err:     &StoreError{Code: "42703", Message: `column "form_date" of relation "form_safe" does not exist`},
			variant: SchemaCurrent,
			want:    true,
		},
		{
			name:    "undefined column code for time",
			err:     &StoreError{Code: "42703", Message: `column "form_time" of relation "form_safe" does not exist`},
			variant: SchemaCurrent,
			want:    true,
		},
		{
			name:    "plain message fallback",
			err:     errors.New("column form_date does not exist"),
			variant: SchemaCurrent,
			want:    true,
		},
		{
			name:    "wrapped store error",
			err:     fmt.Errorf("insert: %w", &StoreError{Message: "column date does not exist"}),
			variant: SchemaLegacy,
			want:    true,
		},
		{
			name:    "legacy column does not match current variant",
			err:     &StoreError{Code: "42703", Message: `column "date" does not exist`},
			variant: SchemaCurrent,
			want:    false,
		},
		{
			name:    "current column does not match legacy variant",
			err:     &StoreError{Code: "42703", Message: `column "form_date" does not exist`},
			variant: SchemaLegacy,
			want:    false,
		},
		{
			name:    "permission denied",
			err:     &StoreError{Code: "42501", Message: "permission denied for table form_safe"},
			variant: SchemaCurrent,
			want:    false,
		},
		{
			name:    "other code mentioning the column",
			err:     &StoreError{Code: "23502", Message: `null value in column "form_date" violates not-null constraint`},
			variant: SchemaCurrent,
			want:    false,
		},
		{
			name:    "message without does not exist",
			err:     errors.New("column form_date is ambiguous"),
			variant: SchemaCurrent,
			want:    false,
		},
		{
			name:    "nil",
			err:     nil,
			variant: SchemaCurrent,
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSchemaMismatch(tt.err, tt.variant))
		})
	}
}

func TestMismatchedColumn(t *testing.T) {
	col, ok := MismatchedColumn(&StoreError{Code: "42703", Message: `column "time" does not exist`}, SchemaLegacy)
	assert.True(t, ok)
	assert.Equal(t, "time", col)
}
