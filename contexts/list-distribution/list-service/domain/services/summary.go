package services

import (
	"sort"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
)

// DistributionSummary counts records per agent for a single upload. Every
// agent passed in is reported, in the given order, including agents with no
// records.
func DistributionSummary(records []entities.DistributedRecord, agents []entities.AgentRef) []entities.AgentDistribution {
	counts := make(map[string]int, len(agents))
	for _, record := range records {
		counts[record.AssignedAgentID]++
	}
	summary := make([]entities.AgentDistribution, 0, len(agents))
	for _, agent := range agents {
		summary = append(summary, entities.AgentDistribution{
			AgentID:       agent.ID,
			AgentName:     agent.Name,
			AgentEmail:    agent.Email,
			ItemsAssigned: counts[agent.ID],
		})
	}
	return summary
}

// AggregateBatches groups records by batch and assigned agent. The result
// does not depend on which agents currently exist, so it can be cached.
func AggregateBatches(records []entities.DistributedRecord) []entities.BatchAggregate {
	type key struct {
		batch string
		agent string
	}
	byKey := make(map[key]*entities.AgentBatchCount)
	batchAgents := make(map[string][]key)

	for _, record := range records {
		k := key{batch: record.UploadBatch, agent: record.AssignedAgentID}
		current, ok := byKey[k]
		if !ok {
			current = &entities.AgentBatchCount{
				AgentID:        record.AssignedAgentID,
				FirstCreatedAt: record.CreatedAt,
				FirstRowNumber: record.RowNumber,
			}
			byKey[k] = current
			batchAgents[record.UploadBatch] = append(batchAgents[record.UploadBatch], k)
		}
		current.Count++
		if recordBefore(record.CreatedAt.UnixNano(), record.RowNumber, current.FirstCreatedAt.UnixNano(), current.FirstRowNumber) {
			current.FirstCreatedAt = record.CreatedAt
			current.FirstRowNumber = record.RowNumber
		}
	}

	aggregates := make([]entities.BatchAggregate, 0, len(batchAgents))
	for batch, keys := range batchAgents {
		agg := entities.BatchAggregate{UploadBatch: batch}
		for _, k := range keys {
			agg.Agents = append(agg.Agents, *byKey[k])
		}
		sortAgentCounts(agg.Agents)
		aggregates = append(aggregates, agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].UploadBatch < aggregates[j].UploadBatch
	})
	return aggregates
}

// SummarizeAggregates resolves aggregates against the agents that still
// exist. Records of unknown agents are dropped and batches left empty are
// skipped. Batches are ordered newest first.
func SummarizeAggregates(aggregates []entities.BatchAggregate, knownAgents []entities.AgentRef) []entities.BatchSummary {
	agentsByID := make(map[string]entities.AgentRef, len(knownAgents))
	for _, agent := range knownAgents {
		agentsByID[agent.ID] = agent
	}

	summaries := make([]entities.BatchSummary, 0, len(aggregates))
	for _, agg := range aggregates {
		kept := make([]entities.AgentBatchCount, 0, len(agg.Agents))
		for _, count := range agg.Agents {
			if _, ok := agentsByID[count.AgentID]; ok && count.Count > 0 {
				kept = append(kept, count)
			}
		}
		if len(kept) == 0 {
			continue
		}
		sortAgentCounts(kept)

		summary := entities.BatchSummary{
			UploadBatch:  agg.UploadBatch,
			UploadDate:   kept[0].FirstCreatedAt,
			Distribution: make([]entities.BatchAgentCount, 0, len(kept)),
		}
		for _, count := range kept {
			agent := agentsByID[count.AgentID]
			summary.TotalItems += count.Count
			summary.Distribution = append(summary.Distribution, entities.BatchAgentCount{
				AgentID:    agent.ID,
				AgentName:  agent.Name,
				AgentEmail: agent.Email,
				ItemsCount: count.Count,
			})
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].UploadDate.Equal(summaries[j].UploadDate) {
			return summaries[i].UploadDate.After(summaries[j].UploadDate)
		}
		return summaries[i].UploadBatch < summaries[j].UploadBatch
	})
	return summaries
}

func BatchSummaries(records []entities.DistributedRecord, knownAgents []entities.AgentRef) []entities.BatchSummary {
	return SummarizeAggregates(AggregateBatches(records), knownAgents)
}

// sortAgentCounts orders agents by their earliest record in the batch.
func sortAgentCounts(counts []entities.AgentBatchCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		a, b := counts[i], counts[j]
		if a.FirstCreatedAt.Equal(b.FirstCreatedAt) && a.FirstRowNumber == b.FirstRowNumber {
			return a.AgentID < b.AgentID
		}
		return recordBefore(a.FirstCreatedAt.UnixNano(), a.FirstRowNumber, b.FirstCreatedAt.UnixNano(), b.FirstRowNumber)
	})
}

func recordBefore(createdA int64, rowA int, createdB int64, rowB int) bool {
	if createdA != createdB {
		return createdA < createdB
	}
	return rowA < rowB
}
