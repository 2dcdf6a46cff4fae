package commands_test

import (
	"context"
	"testing"
	"time"

	"agentlists/contexts/list-distribution/agent-service/adapters/memory"
	"agentlists/contexts/list-distribution/agent-service/adapters/schema"
	"agentlists/contexts/list-distribution/agent-service/application/commands"
	"agentlists/contexts/list-distribution/agent-service/application/queries"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	"agentlists/internal/platform/passwords"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stepClock struct {
	at time.Time
}

func (c *stepClock) Now() time.Time {
	c.at = c.at.Add(time.Second)
	return c.at
}

func newUseCases() (commands.UseCase, queries.UseCase) {
	store := memory.NewStore(nil)
	return commands.UseCase{
			Repository: store,
			Hasher:     passwords.NewBcryptHasher(bcrypt.MinCost),
			Schema:     schema.MustNewValidator(),
			Clock:      &stepClock{at: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
			IDGen:      store,
		}, queries.UseCase{
			Repository: store,
		}
}

func validCreate(email string) commands.CreateAgentCommand {
	return commands.CreateAgentCommand{
		Name:         "Agent Smith",
		Email:        email,
		CountryCode:  "+44",
		MobileNumber: "7700900123",
		Password:     "secret1",
	}
}

func TestCreateAgentNormalizesAndHashes(t *testing.T) {
	cmd, _ := newUseCases()

	agent, err := cmd.CreateAgent(context.Background(), validCreate("  Smith@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "smith@example.com", agent.Email)
	assert.True(t, agent.Active)
	assert.NotEqual(t, "secret1", agent.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte("secret1")))
}

func TestCreateAgentRejectsDuplicateEmail(t *testing.T) {
	cmd, query := newUseCases()

	_, err := cmd.CreateAgent(context.Background(), validCreate("dup@example.com"))
	require.NoError(t, err)
	_, err = cmd.CreateAgent(context.Background(), validCreate("DUP@example.com"))
	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)

	agents, err := query.ListAgents(context.Background())
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestCreateAgentSchemaViolations(t *testing.T) {
	cmd, _ := newUseCases()

	cases := map[string]func(*commands.CreateAgentCommand){
		"short name":      func(c *commands.CreateAgentCommand) { c.Name = "A" },
		"bad email":       func(c *commands.CreateAgentCommand) { c.Email = "not-an-email" },
		"bad country":     func(c *commands.CreateAgentCommand) { c.CountryCode = "44" },
		"short mobile":    func(c *commands.CreateAgentCommand) { c.MobileNumber = "123" },
		"short password":  func(c *commands.CreateAgentCommand) { c.Password = "abc" },
		"letters mobile":  func(c *commands.CreateAgentCommand) { c.MobileNumber = "77009abc12" },
		"missing country": func(c *commands.CreateAgentCommand) { c.CountryCode = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validCreate("case@example.com")
			mutate(&input)
			_, err := cmd.CreateAgent(context.Background(), input)
			require.ErrorIs(t, err, domainerrors.ErrInvalidAgentInput)
		})
	}
}

func TestUpdateAgentPartialAndConflict(t *testing.T) {
	cmd, _ := newUseCases()
	first, err := cmd.CreateAgent(context.Background(), validCreate("first@example.com"))
	require.NoError(t, err)
	_, err = cmd.CreateAgent(context.Background(), validCreate("second@example.com"))
	require.NoError(t, err)

	inactive := false
	name := "Renamed Agent"
	updated, err := cmd.UpdateAgent(context.Background(), commands.UpdateAgentCommand{
		AgentID:  first.ID,
		Name:     &name,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Agent", updated.Name)
	assert.False(t, updated.Active)
	assert.Equal(t, "first@example.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(first.UpdatedAt))

	taken := "Second@example.com"
	_, err = cmd.UpdateAgent(context.Background(), commands.UpdateAgentCommand{AgentID: first.ID, Email: &taken})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)

	same := "FIRST@example.com"
	_, err = cmd.UpdateAgent(context.Background(), commands.UpdateAgentCommand{AgentID: first.ID, Email: &same})
	require.NoError(t, err)

	_, err = cmd.UpdateAgent(context.Background(), commands.UpdateAgentCommand{AgentID: "missing", Name: &name})
	require.ErrorIs(t, err, domainerrors.ErrAgentNotFound)
}

func TestActiveOrderingAndCount(t *testing.T) {
	cmd, query := newUseCases()
	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		agent, err := cmd.CreateAgent(context.Background(), validCreate(email))
		require.NoError(t, err)
		ids = append(ids, agent.ID)
	}
	inactive := false
	_, err := cmd.UpdateAgent(context.Background(), commands.UpdateAgentCommand{AgentID: ids[1], IsActive: &inactive})
	require.NoError(t, err)

	active, err := query.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ids[0], active[0].ID)
	assert.Equal(t, ids[2], active[1].ID)

	all, err := query.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)

	count, err := query.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, cmd.DeleteAgent(context.Background(), ids[0]))
	require.ErrorIs(t, cmd.DeleteAgent(context.Background(), ids[0]), domainerrors.ErrAgentNotFound)
	_, err = query.GetAgent(context.Background(), ids[0])
	require.ErrorIs(t, err, domainerrors.ErrAgentNotFound)
}
