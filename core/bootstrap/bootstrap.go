package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/membot/core/audit"
	coreconfig "github.com/m3rciful/membot/core/config"
	coredatabase "github.com/m3rciful/membot/core/database"
	"github.com/m3rciful/membot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	// Recorder tunes the transition journal queue. Zero values use the
	// audit package defaults.
	Recorder audit.Options

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB *sqlx.DB

	// Store and Recorder are set when membership auditing is enabled.
	Store    *audit.SQLStore
	Recorder *audit.Recorder
}

// Close releases infrastructure owned by the bootstrap result. The recorder
// is drained before the database handle goes away.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	if r.Recorder != nil {
		r.Recorder.Close()
	}
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// Run initializes the logger, connects to the database, applies migrations,
// and wires the transition journal when auditing is enabled.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(opts.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	res := &Result{DB: db}
	if opts.Config.Membership.Audit {
		res.Store = audit.NewSQLStore(db)
		res.Recorder = audit.NewRecorder(res.Store, opts.Recorder)
	}

	return res, nil
}
