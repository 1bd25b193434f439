// Package wire provides dependency injection for the check-in application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	cliadapter "github.com/example/checkin/internal/adapters/cli"
	"github.com/example/checkin/internal/adapters/filesystem"
	"github.com/example/checkin/internal/adapters/remote"
	"github.com/example/checkin/internal/adapters/sqlite"
	"github.com/example/checkin/internal/app"
	"github.com/example/checkin/internal/config"
	"github.com/example/checkin/internal/db"
	"github.com/example/checkin/internal/logging"
	"github.com/example/checkin/internal/ports/primary"
	"github.com/example/checkin/internal/ports/secondary"
	"github.com/example/checkin/internal/version"
)

// Options tune initialization. Zero values keep the configured settings.
type Options struct {
	Verbose         bool
	Out             io.Writer // notifications; defaults to stdout
	LogOut          io.Writer // logs; defaults to stderr
	RefreshInterval time.Duration
	InitialDelay    time.Duration
	MinInterval     time.Duration
}

var (
	cfg               *config.Config
	logger            *slog.Logger
	database          *sql.DB
	slotStore         secondary.SlotStore
	gateway           *remote.Gateway
	syncService       primary.SyncService
	submissionService primary.SubmissionService
	refreshScheduler  primary.RefreshScheduler
	initErr           error
	once              sync.Once
)

// Init builds every service. Only the first call has any effect; later calls
// return the first call's error.
func Init(opts Options) error {
	once.Do(func() {
		initErr = initServices(opts)
	})
	return initErr
}

// Config returns the effective configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mustInit()
	return logger
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	mustInit()
	return syncService
}

// SubmissionService returns the singleton SubmissionService instance.
func SubmissionService() primary.SubmissionService {
	mustInit()
	return submissionService
}

// RefreshScheduler returns the singleton RefreshScheduler instance.
func RefreshScheduler() primary.RefreshScheduler {
	mustInit()
	return refreshScheduler
}

// Gateway returns the remote service client.
func Gateway() secondary.TimelineGateway {
	mustInit()
	return gateway
}

// SlotStore returns the configured slot backend.
func SlotStore() secondary.SlotStore {
	mustInit()
	return slotStore
}

// TimelineAdapter returns a new TimelineAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func TimelineAdapter() *cliadapter.TimelineAdapter {
	return TimelineAdapterWithOutput(os.Stdout)
}

// TimelineAdapterWithOutput returns a new TimelineAdapter writing to the given output.
func TimelineAdapterWithOutput(out io.Writer) *cliadapter.TimelineAdapter {
	mustInit()
	return cliadapter.NewTimelineAdapter(syncService, out)
}

// SubmitAdapter returns a new SubmitAdapter writing to stdout.
func SubmitAdapter() *cliadapter.SubmitAdapter {
	return SubmitAdapterWithOutput(os.Stdout)
}

// SubmitAdapterWithOutput returns a new SubmitAdapter writing to the given output.
func SubmitAdapterWithOutput(out io.Writer) *cliadapter.SubmitAdapter {
	mustInit()
	return cliadapter.NewSubmitAdapter(submissionService, out)
}

// Close releases the database connection, if any.
func Close() error {
	if database != nil {
		return database.Close()
	}
	return nil
}

func mustInit() {
	if err := Init(Options{}); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices(opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.LogOut == nil {
		opts.LogOut = os.Stderr
	}

	if _, err := config.LoadDotEnv(); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger, err = logging.Setup(opts.LogOut, level)
	if err != nil {
		return err
	}

	slotStore, err = newSlotStore(cfg)
	if err != nil {
		return err
	}

	gateway, err = remote.NewGateway(remote.Options{
		BaseURL:       cfg.APIBaseURL,
		FetchTimeout:  cfg.FetchTimeout.Std(),
		SubmitTimeout: cfg.SubmitTimeout.Std(),
		UserAgent:     version.UserAgent(),
	})
	if err != nil {
		return err
	}

	// Create the entry store and effect executor over the adapters
	store := app.NewEntryStore(slotStore, cfg.SlotName, logger)
	executor := app.NewEffectExecutor(store, cliadapter.NewNotifier(opts.Out), logger)

	// Create services (primary ports implementation)
	syncImpl := app.NewSyncService(store, gateway, executor, logger)
	scheduler := app.NewRefreshScheduler(syncImpl, app.SchedulerOptions{
		Period:       pick(opts.RefreshInterval, cfg.RefreshInterval.Std()),
		InitialDelay: pick(opts.InitialDelay, cfg.InitialDelay.Std()),
		MinInterval:  pick(opts.MinInterval, cfg.MinInterval.Std()),
		Logger:       logger,
	})

	syncService = syncImpl
	refreshScheduler = scheduler
	submissionService = app.NewSubmissionService(store, gateway, scheduler, executor, logger)

	logger.Debug("services initialized",
		"backend", cfg.StoreBackend,
		"data_dir", cfg.DataDir,
		"api", gateway.BaseURL(),
	)
	return nil
}

func newSlotStore(c *config.Config) (secondary.SlotStore, error) {
	switch c.StoreBackend {
	case config.BackendSQLite:
		conn, err := db.Open(db.PathIn(c.DataDir))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		database = conn
		return sqlite.NewSlotRepository(conn), nil
	case config.BackendFile:
		return filesystem.NewSlotFileStore(filepath.Join(c.DataDir, "slots"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

func pick(override, configured time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return configured
}
