package services

import (
	"fmt"
	"testing"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatch(t *testing.T, n int) ValidatedBatch {
	t.Helper()
	records := make([]entities.NormalizedRecord, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, entities.NormalizedRecord{
			FirstName: fmt.Sprintf("contact-%03d", i),
			Phone:     fmt.Sprintf("555%04d", i),
		})
	}
	batch, err := Validate(records)
	require.NoError(t, err)
	return batch
}

func makeAgents(n int) []entities.AgentRef {
	agents := make([]entities.AgentRef, 0, n)
	for i := 1; i <= n; i++ {
		agents = append(agents, entities.AgentRef{
			ID:     fmt.Sprintf("agent-%d", i),
			Name:   fmt.Sprintf("Agent %d", i),
			Email:  fmt.Sprintf("agent%d@example.com", i),
			Active: true,
		})
	}
	return agents
}

func countsByAgent(records []entities.DistributedRecord, agents []entities.AgentRef) []int {
	index := make(map[string]int, len(agents))
	for i, agent := range agents {
		index[agent.ID] = i
	}
	counts := make([]int, len(agents))
	for _, record := range records {
		counts[index[record.AssignedAgentID]]++
	}
	return counts
}

func TestAllocationPlan(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, AllocationPlan(10, 3))
	assert.Equal(t, []int{1, 1, 0, 0}, AllocationPlan(2, 4))
	assert.Equal(t, []int{5, 5}, AllocationPlan(10, 2))
	assert.Nil(t, AllocationPlan(10, 0))
}

func TestDistributeRemainderGoesToLeadingAgents(t *testing.T) {
	agents := makeAgents(3)
	records, err := Distribute(makeBatch(t, 10), agents)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 3}, countsByAgent(records, agents))
}

func TestDistributeUnderSupply(t *testing.T) {
	agents := makeAgents(4)
	records, err := Distribute(makeBatch(t, 2), agents)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 0}, countsByAgent(records, agents))
}

func TestDistributeProperties(t *testing.T) {
	for total := 1; total <= 40; total += 3 {
		for agentCount := 1; agentCount <= 9; agentCount++ {
			t.Run(fmt.Sprintf("n=%d_k=%d", total, agentCount), func(t *testing.T) {
				batch := makeBatch(t, total)
				agents := makeAgents(agentCount)

				records, err := Distribute(batch, agents)
				require.NoError(t, err)

				// conservation
				require.Len(t, records, total)

				// balance
				counts := countsByAgent(records, agents)
				minCount, maxCount := counts[0], counts[0]
				for _, c := range counts {
					minCount = min(minCount, c)
					maxCount = max(maxCount, c)
				}
				assert.LessOrEqual(t, maxCount-minCount, 1)

				// order preservation and contiguity
				source := batch.Records()
				lastAgent := -1
				agentIndex := map[string]int{}
				for i, agent := range agents {
					agentIndex[agent.ID] = i
				}
				for i, record := range records {
					assert.Equal(t, source[i].FirstName, record.FirstName)
					assert.Equal(t, i+1, record.RowNumber)
					current := agentIndex[record.AssignedAgentID]
					assert.GreaterOrEqual(t, current, lastAgent)
					lastAgent = current
				}

				// determinism
				again, err := Distribute(batch, agents)
				require.NoError(t, err)
				assert.Equal(t, records, again)
			})
		}
	}
}

func TestDistributeRejectsEmptyInputs(t *testing.T) {
	_, err := Distribute(ValidatedBatch{}, makeAgents(2))
	require.ErrorIs(t, err, domainerrors.ErrNoItemsToDistribute)

	_, err = Distribute(makeBatch(t, 3), nil)
	require.ErrorIs(t, err, domainerrors.ErrNoAgentsAvailable)
}
