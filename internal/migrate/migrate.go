package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator applies goose migrations over a database/sql handle borrowed from
// the pgx pool.
type Migrator struct {
	db  *sql.DB
	log *zap.Logger
}

func New(pool *pgxpool.Pool, migrations fs.FS, log *zap.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrations)
	goose.SetLogger(zap.NewStdLog(log))
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool), log: log}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	v, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.log.Info("migrations applied", zap.Int64("version", v))
	return nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

// Close releases the sql.DB wrapper; the pool stays open.
func (m *Migrator) Close() error {
	return m.db.Close()
}
