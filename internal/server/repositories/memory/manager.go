// Package memory provides an in-process RepositoryManager. It keeps all
// records in maps guarded by a mutex and ignores the database handles passed
// to it. It backs the "memory" DSN and end-to-end tests.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/repositories/refreshtokens"
	"github.com/bannakon/zentasks/internal/server/repositories/todos"
	"github.com/bannakon/zentasks/internal/server/repositories/users"
)

type store struct {
	mu sync.RWMutex

	users   map[int64]*models.User
	byEmail map[string]int64
	tokens  map[string]*models.RefreshToken
	todos   map[int64]*models.Todo
	lastID  int64
	now     func() time.Time
}

func (s *store) nextID() int64 {
	s.lastID++
	return s.lastID
}

// InMemoryRepositoryManager implements repomanager.RepositoryManager.
type InMemoryRepositoryManager struct {
	store *store
	// txMu serialises WithTx callers.
	txMu sync.Mutex
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		store: &store{
			users:   make(map[int64]*models.User),
			byEmail: make(map[string]int64),
			tokens:  make(map[string]*models.RefreshToken),
			todos:   make(map[int64]*models.Todo),
			now:     time.Now,
		},
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return &usersRepo{s: m.store}
}

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &refreshTokensRepo{s: m.store}
}

func (m *InMemoryRepositoryManager) Todos(dbx.DBTX) todos.Repository {
	return &todosRepo{s: m.store}
}

// WithTx runs fn while holding the transaction lock. Changes made by fn are
// not undone when it fails.
func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Ping(context.Context) error {
	return nil
}
