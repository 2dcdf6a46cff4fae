package services

import "agentlists/contexts/list-distribution/list-service/domain/entities"

// Header spellings accepted per field, highest priority first.
var (
	firstNameHeaders = []string{"firstname", "first_name", "firstName", "FirstName", "FIRSTNAME"}
	phoneHeaders     = []string{"phone", "Phone", "PHONE", "mobile", "Mobile", "phoneNumber"}
	notesHeaders     = []string{"notes", "Notes", "NOTES", "note", "Note", "comments"}
)

// Normalize maps a raw row onto the canonical fields. The first header
// present in the row wins even when its cell is empty.
func Normalize(row entities.RawRow) entities.NormalizedRecord {
	return entities.NormalizedRecord{
		FirstName: firstPresent(row, firstNameHeaders),
		Phone:     firstPresent(row, phoneHeaders),
		Notes:     firstPresent(row, notesHeaders),
	}
}

func NormalizeAll(rows []entities.RawRow) []entities.NormalizedRecord {
	records := make([]entities.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(row))
	}
	return records
}

func firstPresent(row entities.RawRow, keys []string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return value
		}
	}
	return ""
}
