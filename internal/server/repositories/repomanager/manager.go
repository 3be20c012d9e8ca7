package repomanager

import (
	"context"
	"database/sql"

	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/repositories/refreshtokens"
	"github.com/bannakon/zentasks/internal/server/repositories/todos"
	"github.com/bannakon/zentasks/internal/server/repositories/users"
)

// RepositoryManager vends store implementations bound to a database handle
// and runs work inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Todos(db dbx.DBTX) todos.Repository
	// WithTx runs fn in a single transaction; fn must use the given handle.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
