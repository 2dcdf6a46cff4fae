// Package cli provides the agentlistsctl admin command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"agentlists/internal/app/bootstrap"
	"agentlists/internal/platform/config"
	"agentlists/internal/platform/logging"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// Execute runs the root command against the real filesystem.
func Execute(ctx context.Context) error {
	return NewRootCmd(afero.NewOsFs()).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Local files are read through fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "agentlistsctl",
		Short: "Administer the agentlists service",
		Long: `agentlistsctl bootstraps admins, migrates the database, inspects agents
and previews how a contact file would be distributed.

Configuration is read the same way as the api: .env, configs/config.yaml
and environment variables such as STORAGE_DRIVER and POSTGRES_DSN.`,
		Version:       Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	env := &environment{fs: fs, verbose: &verbose}
	root.AddCommand(newCreateAdminCmd(env))
	root.AddCommand(newMigrateCmd(env))
	root.AddCommand(newAgentsCmd(env))
	root.AddCommand(newDistributeCmd(env))
	return root
}

type environment struct {
	fs      afero.Fs
	verbose *bool
}

// openModules loads config and wires the modules. Commands that write must
// run against postgres, since memory storage dies with the process.
func (e *environment) openModules(ctx context.Context, requirePostgres bool) (*bootstrap.Modules, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if requirePostgres && cfg.StorageDriver != config.StoragePostgres {
		return nil, nil, nil, fmt.Errorf("this command needs storage.driver=postgres, got %q", cfg.StorageDriver)
	}

	level := slog.LevelWarn
	if *e.verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := logging.New(cfg.LogFile, level)
	logger = logger.With("service", cfg.ServiceName, "process", "cli")

	modules, err := bootstrap.BuildModules(ctx, cfg, logger, nil, nil)
	if err != nil {
		_ = closeLog()
		return nil, nil, nil, err
	}
	closeAll := func() {
		_ = modules.Close()
		_ = closeLog()
	}
	return modules, logger, closeAll, nil
}
