// Package forecasterror defines the typed errors raised by the forecasting
// pipeline. None of them is fatal to a run: callers degrade the affected
// category to a fallback or excluded status and continue.
package forecasterror

import "fmt"

// InsufficientHistoryError reports a category whose observed history is too
// short to be modeled at all. The category is excluded from forecasting and
// listed among the unmodeled categories.
type InsufficientHistoryError struct {
	Category string
	Months   int
	Required int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("category %q has %d months of history, need at least %d",
		e.Category, e.Months, e.Required)
}

// InsufficientRowsError reports a major category that is eligible for
// modeling but yields too few trainable feature rows. The category falls
// back to trailing-mean forecasting.
type InsufficientRowsError struct {
	Category string
	Rows     int
	Required int
}

func (e *InsufficientRowsError) Error() string {
	return fmt.Sprintf("category %q has %d trainable rows, need at least %d",
		e.Category, e.Rows, e.Required)
}

// SchemaMismatchError reports a persisted model artifact whose recorded
// feature schema no longer matches the one produced by the feature builder.
// It is treated as a cache miss and forces retraining.
type SchemaMismatchError struct {
	Category string
	Stored   []string
	Current  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("model artifact for %q was trained on schema %v, current schema is %v",
		e.Category, e.Stored, e.Current)
}

// ArtifactError reports a model artifact that could not be read or decoded.
// Like a schema mismatch, it is treated as a cache miss.
type ArtifactError struct {
	Category string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("unusable model artifact for %q at %s: %v", e.Category, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}
