package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AgentDistributionDTO struct {
	AgentID       string `json:"agentId"`
	AgentName     string `json:"agentName"`
	AgentEmail    string `json:"agentEmail"`
	ItemsAssigned int    `json:"itemsAssigned"`
}

type UploadResponse struct {
	UploadBatch         string                 `json:"uploadBatch"`
	TotalItems          int                    `json:"totalItems"`
	DistributionSummary []AgentDistributionDTO `json:"distributionSummary"`
}

type MobileDTO struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

type AssignedAgentDTO struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Mobile MobileDTO `json:"mobile"`
}

type ListRecordDTO struct {
	ID              string            `json:"id"`
	FirstName       string            `json:"firstName"`
	Phone           string            `json:"phone"`
	Notes           string            `json:"notes"`
	AssignedAgentID string            `json:"assignedAgentId"`
	AssignedTo      *AssignedAgentDTO `json:"assignedTo"`
	UploadBatch     string            `json:"uploadBatch"`
	RowNumber       int               `json:"rowNumber"`
	Status          string            `json:"status"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

type ListRecordsRequest struct {
	AgentID     string
	UploadBatch string
	Status      string
}

type ListRecordsResponse struct {
	Count int             `json:"count"`
	Data  []ListRecordDTO `json:"data"`
}

type AgentSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AgentListsResponse struct {
	Agent AgentSummaryDTO `json:"agent"`
	Count int             `json:"count"`
	Data  []ListRecordDTO `json:"data"`
}

type BatchAgentCountDTO struct {
	AgentID    string `json:"agentId"`
	AgentName  string `json:"agentName"`
	AgentEmail string `json:"agentEmail"`
	ItemsCount int    `json:"itemsCount"`
}

type BatchSummaryDTO struct {
	UploadBatch  string               `json:"uploadBatch"`
	TotalItems   int                  `json:"totalItems"`
	UploadDate   string               `json:"uploadDate"`
	Distribution []BatchAgentCountDTO `json:"distribution"`
}

type SummaryResponse struct {
	Count int               `json:"count"`
	Data  []BatchSummaryDTO `json:"data"`
}

type DeleteBatchResponse struct {
	UploadBatch  string `json:"uploadBatch"`
	DeletedCount int64  `json:"deletedCount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
