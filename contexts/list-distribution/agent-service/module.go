package agentservice

import (
	"log/slog"

	httpadapter "agentlists/contexts/list-distribution/agent-service/adapters/http"
	"agentlists/contexts/list-distribution/agent-service/adapters/memory"
	"agentlists/contexts/list-distribution/agent-service/adapters/schema"
	"agentlists/contexts/list-distribution/agent-service/application/commands"
	"agentlists/contexts/list-distribution/agent-service/application/queries"
	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	"agentlists/contexts/list-distribution/agent-service/ports"
	"agentlists/internal/platform/passwords"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.UseCase
	Queries  queries.UseCase
	Store    *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Hasher     ports.PasswordHasher
	Schema     ports.SchemaValidator
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository: deps.Repository,
		Hasher:     deps.Hasher,
		Schema:     deps.Schema,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: commandUseCase,
		Queries:  queryUseCase,
	}
}

func NewInMemoryModule(seed []entities.Agent, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Hasher:     passwords.NewBcryptHasher(0),
		Schema:     schema.MustNewValidator(),
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
