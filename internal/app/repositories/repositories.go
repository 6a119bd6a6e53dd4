package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/tuitiondesk/internal/db"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so every
// repository runs the same way inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// psql is the statement builder every repository uses
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances bound to one DBTX
type Repositories struct {
	Users         IUserRepository
	Students      IStudentRepository
	Fees          IFeeRepository
	Attendance    IAttendanceRepository
	Announcements IAnnouncementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Students:      NewStudentRepository(db),
		Fees:          NewFeeRepository(db),
		Attendance:    NewAttendanceRepository(db),
		Announcements: NewAnnouncementRepository(db),
	}
}

// TxFn runs against repositories bound to an open transaction
type TxFn func(ctx context.Context, repos *Repositories) error

// Store gives services access to repositories, either directly or inside a
// transaction that commits only when fn returns nil.
type Store interface {
	Repos() *Repositories
	WithinTx(ctx context.Context, fn TxFn) error
}

// PgStore is the PostgreSQL-backed Store
type PgStore struct {
	db    *db.PostgresDB
	repos *Repositories
}

// NewStore creates a Store over the shared pool
func NewStore(pg *db.PostgresDB) *PgStore {
	return &PgStore{
		db:    pg,
		repos: NewRepositories(pg.Pool),
	}
}

// Repos returns repositories bound to the pool
func (s *PgStore) Repos() *Repositories {
	return s.repos
}

// WithinTx runs fn with repositories bound to a single transaction
func (s *PgStore) WithinTx(ctx context.Context, fn TxFn) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
