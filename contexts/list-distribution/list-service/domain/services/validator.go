package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
)

// MaxFirstNameLength caps the trimmed first name, counted in runes.
const MaxFirstNameLength = 100

var phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

// ValidatedBatch is a non-empty, ordered set of records that passed Validate.
// The zero value is an empty batch and is rejected by Distribute.
type ValidatedBatch struct {
	records []entities.NormalizedRecord
}

func (b ValidatedBatch) Len() int {
	return len(b.records)
}

// Records returns a copy of the validated records in source order.
func (b ValidatedBatch) Records() []entities.NormalizedRecord {
	return append([]entities.NormalizedRecord(nil), b.records...)
}

// Validate checks every record in order and stops at the first violation.
// Accepted values are trimmed.
func Validate(records []entities.NormalizedRecord) (ValidatedBatch, error) {
	if len(records) == 0 {
		return ValidatedBatch{}, domainerrors.ErrEmptyBatch
	}

	validated := make([]entities.NormalizedRecord, 0, len(records))
	for i, record := range records {
		row := i + 1
		firstName := strings.TrimSpace(record.FirstName)
		phone := strings.TrimSpace(record.Phone)

		if firstName == "" {
			return ValidatedBatch{}, &domainerrors.RowError{Row: row, Field: "firstName", Err: domainerrors.ErrMissingRequiredField}
		}
		if phone == "" {
			return ValidatedBatch{}, &domainerrors.RowError{Row: row, Field: "phone", Err: domainerrors.ErrMissingRequiredField}
		}
		if !phonePattern.MatchString(phone) {
			return ValidatedBatch{}, &domainerrors.RowError{Row: row, Field: "phone", Err: domainerrors.ErrInvalidPhoneFormat}
		}
		if utf8.RuneCountInString(firstName) > MaxFirstNameLength {
			return ValidatedBatch{}, &domainerrors.RowError{
				Row:   row,
				Field: "firstName",
				Limit: MaxFirstNameLength,
				Err:   domainerrors.ErrFieldTooLong,
			}
		}

		validated = append(validated, entities.NormalizedRecord{
			FirstName: firstName,
			Phone:     phone,
			Notes:     strings.TrimSpace(record.Notes),
		})
	}
	return ValidatedBatch{records: validated}, nil
}
