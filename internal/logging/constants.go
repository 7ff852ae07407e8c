package logging

// Field names shared by every component so log lines can be filtered consistently.
const (
	FieldImportID    = "import_id"
	FieldUserID      = "user_id"
	FieldInstitution = "institution"
	FieldParser      = "parser"
	FieldFile        = "file_name"
	FieldFileID      = "file_id"
	FieldCurrency    = "currency"
	FieldRow         = "row"
	FieldReference   = "reference_id"
	FieldCategory    = "category"
	FieldReason      = "reason"
	FieldCount       = "count"
	FieldStage       = "stage"
	FieldDuration    = "duration"
)
