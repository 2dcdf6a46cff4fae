package entities

import "time"

// AgentDistribution reports how many records of one upload went to an agent.
type AgentDistribution struct {
	AgentID       string
	AgentName     string
	AgentEmail    string
	ItemsAssigned int
}

// AgentBatchCount is the per-agent slice of a batch aggregate. FirstCreatedAt
// and FirstRowNumber identify the agent's earliest record in the batch.
type AgentBatchCount struct {
	AgentID        string
	Count          int
	FirstCreatedAt time.Time
	FirstRowNumber int
}

// BatchAggregate groups one batch by assigned agent without resolving agents.
type BatchAggregate struct {
	UploadBatch string
	Agents      []AgentBatchCount
}

type BatchAgentCount struct {
	AgentID    string
	AgentName  string
	AgentEmail string
	ItemsCount int
}

// BatchSummary is the history view of one upload batch restricted to agents
// that still exist.
type BatchSummary struct {
	UploadBatch  string
	TotalItems   int
	UploadDate   time.Time
	Distribution []BatchAgentCount
}
