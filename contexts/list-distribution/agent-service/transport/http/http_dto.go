package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MobileDTO struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

type AgentDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    MobileDTO `json:"mobile"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateAgentRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type UpdateAgentRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	CountryCode  *string `json:"countryCode,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

type AgentResponse struct {
	Data AgentDTO `json:"data"`
}

type ListAgentsResponse struct {
	Count int        `json:"count"`
	Data  []AgentDTO `json:"data"`
}

type ActiveCountResponse struct {
	Count int64 `json:"count"`
}

type DeleteAgentResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
