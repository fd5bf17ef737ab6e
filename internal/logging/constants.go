package logging

// Standardized field names for structured logging. Keeping these in one
// place makes log output consistent and easy to filter.
const (
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldError      = "error"
	FieldFile       = "file_path"
	FieldFolds      = "folds"
	FieldHorizon    = "horizon"
	FieldMAE        = "mae"
	FieldMonths     = "months"
	FieldOperation  = "operation"
	FieldReason     = "reason"
	FieldRows       = "rows"
	FieldStatus     = "status"
	FieldWorkers    = "workers"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
