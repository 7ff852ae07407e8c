package models

// RawStatement is one uploaded statement file, alive for a single import call.
type RawStatement struct {
	Content     []byte
	Institution string
	Currency    string
	// FileName is only used to validate the extension and for logging.
	FileName string
}

// ImportResult is returned to the caller of an import.
type ImportResult struct {
	ImportedCount int `json:"imported_count"`
}

// User is the part of a user record the importer needs.
type User struct {
	ID         int64
	NationalID string
}

// FileRecord is the uploaded file as persisted before its rows are imported.
type FileRecord struct {
	UserID        int64
	FileName      string
	ContentBase64 string
	Currency      string
}
