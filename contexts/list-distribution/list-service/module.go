package listservice

import (
	"log/slog"

	httpadapter "agentlists/contexts/list-distribution/list-service/adapters/http"
	"agentlists/contexts/list-distribution/list-service/adapters/memory"
	"agentlists/contexts/list-distribution/list-service/adapters/spreadsheet"
	"agentlists/contexts/list-distribution/list-service/adapters/staging"
	"agentlists/contexts/list-distribution/list-service/application/commands"
	"agentlists/contexts/list-distribution/list-service/application/queries"
	"agentlists/contexts/list-distribution/list-service/application/workers"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/spf13/afero"
)

// Module is the list-service composition output.
type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

// Dependencies defines the ports required by list-service use cases.
// Cache and Metrics are optional.
type Dependencies struct {
	Records        ports.RecordRepository
	Outbox         ports.OutboxRepository
	Agents         ports.AgentDirectory
	Stager         ports.FileStager
	Parser         ports.SpreadsheetParser
	Cache          ports.SummaryCache
	Metrics        ports.UploadMetrics
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	BatchIDs       ports.BatchIDGenerator
	MaxUploadBytes int64
	Topic          string
	RelayBatchSize int
	Logger         *slog.Logger
}

// NewModule wires list-service use cases and the HTTP handler.
func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Records:        deps.Records,
		Agents:         deps.Agents,
		Stager:         deps.Stager,
		Parser:         deps.Parser,
		Cache:          deps.Cache,
		Metrics:        deps.Metrics,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		BatchIDs:       deps.BatchIDs,
		MaxUploadBytes: deps.MaxUploadBytes,
		Logger:         deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Records: deps.Records,
		Agents:  deps.Agents,
		Cache:   deps.Cache,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Topic:     deps.Topic,
			BatchSize: deps.RelayBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds the module on in-memory storage and an in-memory
// filesystem for staged uploads.
func NewInMemoryModule(seed []entities.DistributedRecord, agents ports.AgentDirectory, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	fs := afero.NewMemMapFs()
	module := NewModule(Dependencies{
		Records:  store,
		Outbox:   store,
		Agents:   agents,
		Stager:   staging.NewStager(fs, "/uploads", logger),
		Parser:   spreadsheet.NewParser(fs),
		Cache:    memory.NewSummaryCache(),
		Clock:    store,
		IDGen:    store,
		BatchIDs: store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
