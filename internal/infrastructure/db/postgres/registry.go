package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/infrastructure/db/postgres/migrations"
)

// SchemaLockID is the advisory lock key that serialises schema
// initialisation across processes.
const SchemaLockID int64 = 708201002

// runMigrations applies the embedded migrations. Replaced in tests.
var runMigrations = func(ctx context.Context, db *sql.DB) error {
	locker, err := lock.NewPostgresSessionLocker(lock.WithLockID(SchemaLockID))
	if err != nil {
		return fmt.Errorf("create session locker: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS,
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Registry owns one pool per DSN and remembers which DSNs already have the
// schema in place. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	opts    Options
	pools   map[string]*sql.DB
	ensured map[string]bool
	open    func(dsn string, opts Options) (*sql.DB, error)
	log     zerolog.Logger
}

// NewRegistry creates an empty registry. Pools are opened lazily.
func NewRegistry(opts Options, log zerolog.Logger) *Registry {
	return &Registry{
		opts:    opts,
		pools:   make(map[string]*sql.DB),
		ensured: make(map[string]bool),
		open:    Open,
		log:     log,
	}
}

// Pool returns the pool for dsn, creating it on first use. Every call with
// the same DSN returns the same pool.
func (r *Registry) Pool(dsn string) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool(dsn)
}

func (r *Registry) pool(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty dsn")
	}
	if db, ok := r.pools[dsn]; ok {
		return db, nil
	}
	db, err := r.open(dsn, r.opts)
	if err != nil {
		return nil, err
	}
	r.pools[dsn] = db
	r.log.Info().Str("dsn", MaskDSN(dsn)).Int("max_conns", r.opts.MaxConns).Msg("postgres pool created")
	return db, nil
}

// EnsureSchema creates or upgrades the schema for dsn once per process.
// A failed attempt is not remembered, so the next call retries.
func (r *Registry) EnsureSchema(ctx context.Context, dsn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ensured[dsn] {
		return nil
	}
	db, err := r.pool(dsn)
	if err != nil {
		return err
	}
	if err := runMigrations(ctx, db); err != nil {
		metrics.SchemaEnsureTotal.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Str("dsn", MaskDSN(dsn)).Msg("schema initialisation failed")
		return err
	}
	r.ensured[dsn] = true
	metrics.SchemaEnsureTotal.WithLabelValues("ok").Inc()
	r.log.Info().Str("dsn", MaskDSN(dsn)).Msg("schema ready")
	return nil
}

// Source binds the registry to one DSN.
func (r *Registry) Source(dsn string) *Source {
	return &Source{registry: r, dsn: dsn}
}

// Close closes every pool and forgets the ensured set.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for dsn, db := range r.pools {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", MaskDSN(dsn), err))
		}
		delete(r.pools, dsn)
	}
	r.ensured = make(map[string]bool)
	return errors.Join(errs...)
}

// Source is a Connector for a single DSN.
type Source struct {
	registry *Registry
	dsn      string
}

// DB ensures the schema and returns the pool.
func (s *Source) DB(ctx context.Context) (*sql.DB, error) {
	if err := s.registry.EnsureSchema(ctx, s.dsn); err != nil {
		return nil, err
	}
	return s.registry.Pool(s.dsn)
}

// Ping checks that the database answers.
func (s *Source) Ping(ctx context.Context) error {
	db, err := s.registry.Pool(s.dsn)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}
