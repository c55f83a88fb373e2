package logging

// Standardized field names so log output stays greppable across commands.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldBank       = "bank"
	FieldFormat     = "format"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldRunID      = "run_id"
	FieldStage      = "stage"
	FieldCard       = "card"
	FieldDate       = "date"
	FieldBalance    = "balance"
	FieldDuration   = "duration_ms"
	FieldDelimiter  = "delimiter"
)
