package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/claquete/internal/cli"
	"github.com/alexanderramin/claquete/internal/config"
	"github.com/alexanderramin/claquete/internal/db"
	"github.com/alexanderramin/claquete/internal/docsync"
	"github.com/alexanderramin/claquete/internal/logging"
	"github.com/alexanderramin/claquete/internal/rates"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/alexanderramin/claquete/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	app := &cli.App{
		Confirm: cli.HuhConfirm,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	app.Setup = func(ctx context.Context, g cli.Globals) error {
		cfg, err := config.Load(g.ConfigPath)
		if err != nil {
			return err
		}
		if g.DBPath != "" {
			path, err := config.ExpandPath(g.DBPath)
			if err != nil {
				return err
			}
			cfg.Storage.Driver = config.DriverSQLite
			cfg.Storage.SQLitePath = path
		}

		logger, err := logging.FromConfig(cfg.Logging, os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		st, err := openStore(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		closers = append(closers, st.close)

		lookup, err := rates.New(st.rates, rates.Options{
			MaxCost: cfg.Rates.CacheMaxCost,
			TTL:     time.Duration(cfg.Rates.TTLSeconds) * time.Second,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		closers = append(closers, lookup.Close)
		if err := lookup.Warm(ctx); err != nil {
			logger.Warn("rate cache not warmed", "error", err)
		}

		var publisher docsync.Publisher = docsync.Noop{}
		if cfg.DocSync.Enabled {
			publisher, err = docsync.NewS3Publisher(ctx, docsync.S3Config{
				Bucket:    cfg.DocSync.Bucket,
				Region:    cfg.DocSync.Region,
				Endpoint:  cfg.DocSync.Endpoint,
				Prefix:    cfg.DocSync.Prefix,
				PathStyle: cfg.DocSync.PathStyle,
			})
			if err != nil {
				return err
			}
		}

		observer := service.NewLogUseCaseObserver(logger)
		app.Projects = service.NewProjectService(st.projects, observer)
		app.Rates = service.NewRateService(lookup, st.rates)
		app.DefaultSavingPercent = cfg.DefaultSavingPercent()
		app.NewWorkspace = func() *service.Workspace {
			return service.NewWorkspace(st.projects, st.tx, service.WorkspaceOptions{
				Rates:      lookup,
				Publisher:  publisher,
				Logger:     logger,
				Observer:   observer,
				RetryDelay: time.Duration(cfg.Autosave.RetryDelayMS) * time.Millisecond,
			})
		}
		return nil
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// store is the storage backend picked by configuration.
type store struct {
	projects repository.ProjectRepo
	rates    repository.RoleRateRepo
	tx       repository.ProjectTx
	close    func()
}

func openStore(ctx context.Context, cfg config.Storage) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return &store{
			projects: repository.NewPGProjectRepo(pool),
			rates:    repository.NewPGRoleRateRepo(pool),
			tx:       repository.NewPGProjectTx(pool),
			close:    pool.Close,
		}, nil
	default:
		database, err := db.OpenDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return &store{
			projects: repository.NewSQLiteProjectRepo(database),
			rates:    repository.NewSQLiteRoleRateRepo(database),
			tx:       repository.NewSQLiteProjectTx(db.NewSQLiteUnitOfWork(database)),
			close:    func() { database.Close() },
		}, nil
	}
}
