package adminauthservice

import (
	"log/slog"

	httpadapter "agentlists/contexts/identity-access/admin-auth-service/adapters/http"
	"agentlists/contexts/identity-access/admin-auth-service/adapters/memory"
	"agentlists/contexts/identity-access/admin-auth-service/adapters/token"
	"agentlists/contexts/identity-access/admin-auth-service/application/commands"
	"agentlists/contexts/identity-access/admin-auth-service/application/queries"
	"agentlists/contexts/identity-access/admin-auth-service/domain/entities"
	"agentlists/contexts/identity-access/admin-auth-service/ports"
	"agentlists/internal/platform/passwords"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.UseCase
	Queries  queries.UseCase
	Store    *memory.Store
}

type Dependencies struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
	Tokens ports.TokenIssuer
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Users:  deps.Users,
		Hasher: deps.Hasher,
		Tokens: deps.Tokens,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Users:  deps.Users,
		Tokens: deps.Tokens,
		Clock:  deps.Clock,
		Logger: deps.Logger,
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

func NewInMemoryModule(seed []entities.User, issuer token.JWTIssuer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Users:  store,
		Hasher: passwords.NewBcryptHasher(0),
		Tokens: issuer,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
