package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	adminauthservice "agentlists/contexts/identity-access/admin-auth-service"
	authmemory "agentlists/contexts/identity-access/admin-auth-service/adapters/memory"
	authpostgres "agentlists/contexts/identity-access/admin-auth-service/adapters/postgres"
	"agentlists/contexts/identity-access/admin-auth-service/adapters/token"
	agentservice "agentlists/contexts/list-distribution/agent-service"
	agentmemory "agentlists/contexts/list-distribution/agent-service/adapters/memory"
	agentpostgres "agentlists/contexts/list-distribution/agent-service/adapters/postgres"
	"agentlists/contexts/list-distribution/agent-service/adapters/schema"
	listservice "agentlists/contexts/list-distribution/list-service"
	listmemory "agentlists/contexts/list-distribution/list-service/adapters/memory"
	listpostgres "agentlists/contexts/list-distribution/list-service/adapters/postgres"
	redisadapter "agentlists/contexts/list-distribution/list-service/adapters/redis"
	"agentlists/contexts/list-distribution/list-service/adapters/spreadsheet"
	"agentlists/contexts/list-distribution/list-service/adapters/staging"
	listports "agentlists/contexts/list-distribution/list-service/ports"
	"agentlists/internal/app/agentdirectory"
	"agentlists/internal/platform/cache"
	"agentlists/internal/platform/config"
	"agentlists/internal/platform/db"
	"agentlists/internal/platform/metrics"
	"agentlists/internal/platform/passwords"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// Modules is every service module wired over one storage backend.
type Modules struct {
	Lists  listservice.Module
	Agents agentservice.Module
	Auth   adminauthservice.Module

	postgres *db.Postgres
	redis    *redis.Client
}

// BuildModules wires the service modules for cfg. Publisher may be nil when
// the caller never runs the outbox relay.
func BuildModules(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	recorder *metrics.Recorder,
	publisher listports.EventPublisher,
) (*Modules, error) {
	issuer, err := buildIssuer(cfg, logger)
	if err != nil {
		return nil, err
	}

	modules := &Modules{}
	hasher := passwords.NewBcryptHasher(0)
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	var uploadMetrics listports.UploadMetrics
	if recorder != nil {
		uploadMetrics = recorder
	}

	fs := afero.NewOsFs()
	listDeps := listservice.Dependencies{
		Stager:         staging.NewStager(fs, cfg.UploadStagingDir, logger),
		Parser:         spreadsheet.NewParser(fs),
		Metrics:        uploadMetrics,
		Publisher:      publisher,
		MaxUploadBytes: cfg.UploadMaxBytes,
		Topic:          cfg.EventsTopic,
		RelayBatchSize: cfg.WorkerBatchSize,
		Logger:         logger,
	}
	agentDeps := agentservice.Dependencies{
		Hasher: hasher,
		Schema: validator,
		Logger: logger,
	}
	authDeps := adminauthservice.Dependencies{
		Hasher: hasher,
		Tokens: issuer,
		Logger: logger,
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := db.Connect(cfg.PostgresDSN, db.Options{MaxOpenConns: cfg.PostgresMaxOpenConns})
		if err != nil {
			return nil, err
		}
		modules.postgres = pg

		listRepo := listpostgres.NewRepository(pg.DB, logger)
		listDeps.Records = listRepo
		listDeps.Outbox = listRepo
		listDeps.Clock = listpostgres.SystemClock{}
		listDeps.IDGen = listpostgres.UUIDGenerator{}
		listDeps.BatchIDs = listpostgres.BatchIDGenerator{}

		agentDeps.Repository = agentpostgres.NewRepository(pg.DB, logger)
		agentDeps.Clock = agentpostgres.SystemClock{}
		agentDeps.IDGen = agentpostgres.UUIDGenerator{}

		authDeps.Users = authpostgres.NewRepository(pg.DB, logger)
		authDeps.Clock = authpostgres.SystemClock{}
		authDeps.IDGen = authpostgres.UUIDGenerator{}
	default:
		listStore := listmemory.NewStore(nil)
		listDeps.Records = listStore
		listDeps.Outbox = listStore
		listDeps.Clock = listStore
		listDeps.IDGen = listStore
		listDeps.BatchIDs = listStore

		agentStore := agentmemory.NewStore(nil)
		agentDeps.Repository = agentStore
		agentDeps.Clock = agentStore
		agentDeps.IDGen = agentStore

		authStore := authmemory.NewStore(nil)
		authDeps.Users = authStore
		authDeps.Clock = authStore
		authDeps.IDGen = authStore
	}

	summaryCache, err := modules.buildSummaryCache(ctx, cfg)
	if err != nil {
		_ = modules.Close()
		return nil, err
	}
	listDeps.Cache = summaryCache

	modules.Agents = agentservice.NewModule(agentDeps)
	modules.Auth = adminauthservice.NewModule(authDeps)
	listDeps.Agents = agentdirectory.New(modules.Agents.Queries)
	modules.Lists = listservice.NewModule(listDeps)
	return modules, nil
}

func (m *Modules) buildSummaryCache(ctx context.Context, cfg config.Config) (listports.SummaryCache, error) {
	if cfg.RedisAddress == "" {
		return listmemory.NewSummaryCache(), nil
	}
	client, err := cache.Connect(ctx, cache.Options{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	m.redis = client
	return redisadapter.NewSummaryCache(client, redisadapter.DefaultKey, cfg.SummaryCacheTTL), nil
}

// Migrate creates the tables of every module. It is a no-op on memory storage.
func (m *Modules) Migrate(ctx context.Context) error {
	if m.postgres == nil {
		return nil
	}
	var models []any
	models = append(models, listpostgres.Models()...)
	models = append(models, agentpostgres.Models()...)
	models = append(models, authpostgres.Models()...)
	return m.postgres.Migrate(ctx, models...)
}

// SeedAdmin creates the configured admin when an email is set.
func (m *Modules) SeedAdmin(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	user, created, err := m.Auth.Commands.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("admin seed checked",
		"event", "bootstrap_admin_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"user_id", user.ID,
		"created", created,
	)
	return nil
}

// Ready reports whether the backing stores answer.
func (m *Modules) Ready(ctx context.Context) error {
	if m.postgres != nil {
		if err := m.postgres.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (m *Modules) UsesPostgres() bool {
	return m.postgres != nil
}

func (m *Modules) Close() error {
	var errs []error
	if m.redis != nil {
		errs = append(errs, m.redis.Close())
	}
	if m.postgres != nil {
		errs = append(errs, m.postgres.Close())
	}
	return errors.Join(errs...)
}

// buildIssuer falls back to a random per-process secret on memory storage,
// where nothing outlives the process anyway.
func buildIssuer(cfg config.Config, logger *slog.Logger) (token.JWTIssuer, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.StorageDriver == config.StorageMemory {
		secret = uuid.NewString()
		logger.Warn("auth.jwt_secret not set, using an ephemeral secret",
			"event", "bootstrap_ephemeral_jwt_secret",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	issuer, err := token.NewJWTIssuer(secret, cfg.TokenTTL)
	if err != nil {
		return token.JWTIssuer{}, fmt.Errorf("auth.jwt_secret: %w", err)
	}
	return issuer, nil
}
