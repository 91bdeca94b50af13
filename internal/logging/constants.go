package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldRunID       = "run_id"
	FieldCategory    = "category"
	FieldPhrase      = "phrase"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldRow         = "row"
	FieldOperation   = "operation"
	FieldCount       = "count"
	FieldBackend     = "backend"
	FieldInputDir    = "input_dir"
	FieldOutputFile  = "output_file"
)
