// Package models contains the GORM persistence models and their mapping to
// domain types. Form sheets are insert-only; identity rows are updated in
// place.
package models
