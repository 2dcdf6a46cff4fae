package errors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBatch           = errors.New("file contains no records")
	ErrMissingRequiredField = errors.New("missing or empty required field")
	ErrInvalidPhoneFormat   = errors.New("invalid phone number format")
	ErrFieldTooLong         = errors.New("field too long")

	ErrNoItemsToDistribute = errors.New("no items to distribute")
	ErrNoAgentsAvailable   = errors.New("no active agents available for distribution")

	ErrNoFileUploaded      = errors.New("no file uploaded")
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrFileTooLarge        = errors.New("uploaded file exceeds the size limit")
	ErrUnsupportedFileType = errors.New("only csv, xlsx and xls files are allowed")
	ErrFileParseFailed     = errors.New("uploaded file could not be parsed")

	ErrBatchNotFound      = errors.New("no lists found for this upload batch")
	ErrAgentNotFound      = errors.New("agent not found")
	ErrRecordNotFound     = errors.New("list record not found")
	ErrInvalidStatus      = errors.New("status must be one of pending, in-progress, completed")
	ErrInvalidUploadBatch = errors.New("upload batch is required")
)

// RowError pins a validation failure to a 1-based source row.
type RowError struct {
	Row   int
	Field string
	Limit int
	Err   error
}

func (e *RowError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingRequiredField):
		return fmt.Sprintf("Missing or empty required field '%s' at row %d", e.Field, e.Row)
	case errors.Is(e.Err, ErrInvalidPhoneFormat):
		return fmt.Sprintf("Invalid phone number format at row %d", e.Row)
	case errors.Is(e.Err, ErrFieldTooLong):
		return fmt.Sprintf("Field '%s' too long at row %d (max %d characters)", e.Field, e.Row, e.Limit)
	default:
		return fmt.Sprintf("%v at row %d", e.Err, e.Row)
	}
}

func (e *RowError) Unwrap() error {
	return e.Err
}
