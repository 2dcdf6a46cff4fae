package services

import (
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
)

// AllocationPlan returns how many items each of agentCount agents receives
// when total items are split. The first total%agentCount agents get one extra.
func AllocationPlan(total int, agentCount int) []int {
	if agentCount <= 0 || total < 0 {
		return nil
	}
	base := total / agentCount
	remainder := total % agentCount
	plan := make([]int, agentCount)
	for i := range plan {
		plan[i] = base
		if i < remainder {
			plan[i]++
		}
	}
	return plan
}

// Distribute assigns the batch to agents in contiguous blocks following
// AllocationPlan. Input order is kept and the result is deterministic.
// Returned records carry the source row number but no batch id, record id
// or timestamps.
func Distribute(batch ValidatedBatch, agents []entities.AgentRef) ([]entities.DistributedRecord, error) {
	if batch.Len() == 0 {
		return nil, domainerrors.ErrNoItemsToDistribute
	}
	if len(agents) == 0 {
		return nil, domainerrors.ErrNoAgentsAvailable
	}

	plan := AllocationPlan(batch.Len(), len(agents))
	out := make([]entities.DistributedRecord, 0, batch.Len())
	cursor := 0
	for i, agent := range agents {
		for n := 0; n < plan[i]; n++ {
			record := batch.records[cursor]
			cursor++
			out = append(out, entities.DistributedRecord{
				FirstName:       record.FirstName,
				Phone:           record.Phone,
				Notes:           record.Notes,
				AssignedAgentID: agent.ID,
				RowNumber:       cursor,
			})
		}
	}
	return out, nil
}
