package postgresadapter

import (
	"context"
	"testing"
	"time"

	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewRepository(gdb, nil), mock
}

func TestCreateAgentMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO "agents"`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateAgent(context.Background(), entities.Agent{ID: "a1", Email: "dup@example.com"})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveAgentsOrdersOldestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "mobile_country_code", "mobile_number", "password_hash", "is_active", "created_at", "updated_at"}).
		AddRow("a1", "One", "one@example.com", "+1", "5550001", "hash", true, created, created).
		AddRow("a2", "Two", "two@example.com", "+1", "5550002", "hash", true, created, created)
	mock.ExpectQuery(`SELECT \* FROM "agents" WHERE is_active = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(true).
		WillReturnRows(rows)

	agents, err := repo.ListActiveAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "a1", agents[0].ID)
	assert.Equal(t, "5550001", agents[0].Mobile.Number)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAgentNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM "agents" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteAgent(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrAgentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
