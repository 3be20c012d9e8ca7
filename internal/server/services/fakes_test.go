package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/bannakon/zentasks/internal/dbx"
	"github.com/bannakon/zentasks/internal/server/config"
	"github.com/bannakon/zentasks/internal/server/models"
	refreshtokensrepo "github.com/bannakon/zentasks/internal/server/repositories/refreshtokens"
	todosrepo "github.com/bannakon/zentasks/internal/server/repositories/todos"
	usersrepo "github.com/bannakon/zentasks/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: time.Hour,
		PasswordHashCost:             bcrypt.MinCost,
	}
}

type fakeUsersRepo struct {
	getOut    *models.User
	getErr    error
	existsOut bool
	existsErr error
	createErr error

	created []*models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return f.existsOut, f.existsErr
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error

	created []*models.RefreshToken
	deleted []int64
}

func (f *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) (*models.RefreshToken, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, t)
	return t, nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, id int64) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTodosRepo struct {
	findOut   *models.Todo
	findErr   error
	listOut   []*models.Todo
	err       error
	updateErr error
	deleteErr error

	listedWith *bool
}

func (f *fakeTodosRepo) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	t.ID = 1
	return t, nil
}

func (f *fakeTodosRepo) Find(context.Context, int64, int64) (*models.Todo, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeTodosRepo) List(_ context.Context, _ int64, completed *bool) ([]*models.Todo, error) {
	f.listedWith = completed
	if f.err != nil {
		return nil, f.err
	}
	return f.listOut, nil
}

func (f *fakeTodosRepo) Update(_ context.Context, t *models.Todo) (*models.Todo, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return t, nil
}

func (f *fakeTodosRepo) Delete(context.Context, int64, int64) error {
	return f.deleteErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	td *fakeTodosRepo

	txCalls int
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Todos(dbx.DBTX) todosrepo.Repository                 { return m.td }
func (m *fakeRepoManager) Ping(context.Context) error                          { return nil }

func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txCalls++
	return fn(ctx, nil)
}
