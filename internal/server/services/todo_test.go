package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/models"
	"github.com/bannakon/zentasks/internal/server/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestTodoService_Lifecycle(t *testing.T) {
	rm := memory.NewInMemoryRepositoryManager()
	ctx := context.Background()

	alice, err := rm.Users(nil).Create(ctx, &models.User{Email: "alice@x.com"})
	require.NoError(t, err)
	bob, err := rm.Users(nil).Create(ctx, &models.User{Email: "bob@x.com"})
	require.NoError(t, err)

	s := NewTodoService(nil, rm)

	created, err := s.Create(ctx, alice.ID, TodoInput{Title: "write report"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, created.UserID)
	assert.False(t, created.Completed)

	_, err = s.Get(ctx, bob.ID, created.ID)
	assert.ErrorIs(t, err, common.ErrTodoNotFound)

	got, err := s.Get(ctx, alice.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", got.Title)

	updated, err := s.Update(ctx, alice.ID, created.ID, TodoPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "write report", updated.Title, "absent title is kept")
	assert.True(t, updated.Completed)

	updated, err = s.Update(ctx, alice.ID, created.ID, TodoPatch{Title: ptr("send report")})
	require.NoError(t, err)
	assert.Equal(t, "send report", updated.Title)
	assert.True(t, updated.Completed, "absent flag is kept")

	_, err = s.Update(ctx, bob.ID, created.ID, TodoPatch{Title: ptr("mine now")})
	assert.ErrorIs(t, err, common.ErrTodoNotFound)

	_, err = s.Create(ctx, alice.ID, TodoInput{Title: "second"})
	require.NoError(t, err)

	all, err := s.List(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := s.List(ctx, alice.ID, ptr(true))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "send report", done[0].Title)

	open, err := s.List(ctx, alice.ID, ptr(false))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "second", open[0].Title)

	assert.ErrorIs(t, s.Delete(ctx, bob.ID, created.ID), common.ErrTodoNotFound)
	require.NoError(t, s.Delete(ctx, alice.ID, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, alice.ID, created.ID), common.ErrTodoNotFound)
}

func TestTodoService_StoreErrors(t *testing.T) {
	ctx := context.Background()

	rm := &fakeRepoManager{td: &fakeTodosRepo{err: errBoom{}}}
	s := NewTodoService(nil, rm)

	_, err := s.List(ctx, 1, nil)
	if err == nil || !regexp.MustCompile(`error listing todos: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	_, err = s.Create(ctx, 1, TodoInput{Title: "x"})
	if err == nil || !regexp.MustCompile(`error creating todo: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	rm = &fakeRepoManager{td: &fakeTodosRepo{findOut: &models.Todo{ID: 1, UserID: 1}, updateErr: errBoom{}}}
	s = NewTodoService(nil, rm)
	_, err = s.Update(ctx, 1, 1, TodoPatch{Title: ptr("x")})
	if err == nil || !regexp.MustCompile(`error updating todo: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	assert.Equal(t, 1, rm.txCalls)

	rm = &fakeRepoManager{td: &fakeTodosRepo{deleteErr: errBoom{}}}
	err = NewTodoService(nil, rm).Delete(ctx, 1, 1)
	if err == nil || !regexp.MustCompile(`error deleting todo: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestTodoService_ListPassesFilter(t *testing.T) {
	repo := &fakeTodosRepo{listOut: []*models.Todo{}}
	s := NewTodoService(nil, &fakeRepoManager{td: repo})

	_, err := s.List(context.Background(), 1, ptr(false))
	require.NoError(t, err)
	require.NotNil(t, repo.listedWith)
	assert.False(t, *repo.listedWith)
}
