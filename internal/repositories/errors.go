package repositories

import "errors"

var (
	// ErrRecordFileCorrupt is returned when a record file exists but is not
	// valid UTF-8 delimited text.
	ErrRecordFileCorrupt = errors.New("record file is corrupt")

	// ErrRecordFileUnreadable is returned for I/O failures while reading a record
	// file that exists. An absent file is not an error.
	ErrRecordFileUnreadable = errors.New("record file could not be read")

	// ErrRecordFileWrite is returned when a table could not be written to disk.
	ErrRecordFileWrite = errors.New("record file could not be written")
)
