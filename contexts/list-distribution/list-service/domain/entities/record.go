package entities

import "time"

// RawRow is one parsed spreadsheet row keyed by the header cell text.
type RawRow map[string]string

// NormalizedRecord carries the canonical fields of one row. Values may be
// empty until the batch is validated.
type NormalizedRecord struct {
	FirstName string
	Phone     string
	Notes     string
}

type RecordStatus string

const (
	RecordStatusPending    RecordStatus = "pending"
	RecordStatusInProgress RecordStatus = "in-progress"
	RecordStatusCompleted  RecordStatus = "completed"
)

func (s RecordStatus) Valid() bool {
	switch s {
	case RecordStatusPending, RecordStatusInProgress, RecordStatusCompleted:
		return true
	default:
		return false
	}
}

// DistributedRecord is a normalized record assigned to exactly one agent
// inside one upload batch. It is never reassigned once persisted.
type DistributedRecord struct {
	ID              string
	FirstName       string
	Phone           string
	Notes           string
	AssignedAgentID string
	UploadBatch     string
	RowNumber       int
	Status          RecordStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecordFilter narrows record listings. Empty fields match everything.
type RecordFilter struct {
	AgentID     string
	UploadBatch string
	Status      RecordStatus
}
