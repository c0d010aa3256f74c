package ports

import "kifunav/internal/domain"

// RecordLoader provides already-parsed game records
type RecordLoader interface {
	// LoadRecord loads the record stored at path
	LoadRecord(path string) (*domain.ParsedRecord, error)

	// ListRecords returns the absolute paths of all records in the library
	ListRecords() ([]string, error)

	// Mtime returns the modification time of a record in Unix nanoseconds
	Mtime(path string) (int64, error)
}

// PathResolver turns a possibly relative path into the absolute form
// used to compare files
type PathResolver interface {
	AbsolutePath(path string) (string, error)
}
