package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauflow/mauflow/pkg/mauflow"
)

func newTask(title, creator string, createdAt time.Time) *mauflow.Task {
	return &mauflow.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    mauflow.TaskStatusTodo,
		Priority:  mauflow.PriorityMedium,
		CreatedBy: creator,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemory_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	task := newTask("deploy", "alice", time.Now())
	require.NoError(t, m.CreateTask(ctx, task))

	got, err := m.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "deploy", got.Title)

	got.Status = mauflow.TaskStatusDone
	require.NoError(t, m.UpdateTask(ctx, got))

	updated, err := m.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, mauflow.TaskStatusDone, updated.Status)
}

func TestMemory_GetTask_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.GetTask(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, mauflow.ErrNotFound), "expected ErrNotFound, got: %v", err)
}

func TestMemory_UpdateTask_NotFound(t *testing.T) {
	m := NewMemory()

	err := m.UpdateTask(context.Background(), newTask("ghost", "alice", time.Now()))
	assert.True(t, errors.Is(err, mauflow.ErrNotFound))
}

func TestMemory_CreateTask_Duplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	task := newTask("deploy", "alice", time.Now())
	require.NoError(t, m.CreateTask(ctx, task))
	assert.Error(t, m.CreateTask(ctx, task))
}

func TestMemory_ListTasks_OrderedByCreation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now()
	second := newTask("second", "alice", base.Add(time.Minute))
	first := newTask("first", "alice", base)
	require.NoError(t, m.CreateTask(ctx, second))
	require.NoError(t, m.CreateTask(ctx, first))

	tasks, err := m.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestMemory_ReadsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	task := newTask("deploy", "alice", time.Now())
	require.NoError(t, m.CreateTask(ctx, task))

	got, err := m.GetTask(ctx, task.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := m.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "deploy", again.Title)
}

func TestMemory_DelegationsForUser_NewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now()
	taskID := uuid.New()
	older := &mauflow.Delegation{
		ID: uuid.New(), TaskID: taskID, FromUserID: "alice", ToUserID: "bob",
		Status: mauflow.DelegationPending, CreatedAt: base,
	}
	newer := &mauflow.Delegation{
		ID: uuid.New(), TaskID: taskID, FromUserID: "alice", ToUserID: "bob",
		Status: mauflow.DelegationPending, CreatedAt: base.Add(time.Hour),
	}
	forCarol := &mauflow.Delegation{
		ID: uuid.New(), TaskID: taskID, FromUserID: "alice", ToUserID: "carol",
		Status: mauflow.DelegationPending, CreatedAt: base,
	}
	require.NoError(t, m.CreateDelegation(ctx, older))
	require.NoError(t, m.CreateDelegation(ctx, newer))
	require.NoError(t, m.CreateDelegation(ctx, forCarol))

	got, err := m.ListDelegationsForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestMemory_CommentsByTask_OldestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now()
	taskID := uuid.New()
	later := &mauflow.Comment{
		ID: uuid.New(), TaskID: taskID, AuthorID: "bob", Body: "later",
		CreatedAt: base.Add(time.Minute),
	}
	earlier := &mauflow.Comment{
		ID: uuid.New(), TaskID: taskID, AuthorID: "alice", Body: "earlier",
		Mentions: []string{"bob"}, CreatedAt: base,
	}
	otherTask := &mauflow.Comment{
		ID: uuid.New(), TaskID: uuid.New(), AuthorID: "alice", Body: "elsewhere",
		CreatedAt: base,
	}
	require.NoError(t, m.CreateComment(ctx, later))
	require.NoError(t, m.CreateComment(ctx, earlier))
	require.NoError(t, m.CreateComment(ctx, otherTask))

	got, err := m.ListCommentsByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "earlier", got[0].Body)
	assert.Equal(t, []string{"bob"}, got[0].Mentions)
	assert.Equal(t, "later", got[1].Body)
}

func TestMemory_Notifications(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now()
	older := &mauflow.Notification{
		ID: uuid.New(), UserID: "bob", Kind: mauflow.NotifyComment,
		Message: "older", CreatedAt: base,
	}
	newer := &mauflow.Notification{
		ID: uuid.New(), UserID: "bob", Kind: mauflow.NotifyMention,
		Message: "newer", CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, m.CreateNotification(ctx, older))
	require.NoError(t, m.CreateNotification(ctx, newer))

	all, err := m.ListNotifications(ctx, "bob", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Message)

	require.NoError(t, m.MarkRead(ctx, newer.ID))

	unread, err := m.ListNotifications(ctx, "bob", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "older", unread[0].Message)

	require.NoError(t, m.MarkAllRead(ctx, "bob"))

	unread, err = m.ListNotifications(ctx, "bob", true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMemory_MarkRead_NotFound(t *testing.T) {
	m := NewMemory()

	err := m.MarkRead(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, mauflow.ErrNotFound))
}

func TestMemory_Preferences(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetPreferences(ctx, "bob")
	assert.True(t, errors.Is(err, mauflow.ErrNotFound))

	prefs := &mauflow.NotificationPreferences{
		UserID:            "bob",
		DelegationEnabled: true,
		MentionEnabled:    true,
		QuietHoursStart:   "22:00",
		QuietHoursEnd:     "07:00",
	}
	require.NoError(t, m.SavePreferences(ctx, prefs))

	got, err := m.GetPreferences(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, prefs, got)

	prefs.MentionEnabled = false
	require.NoError(t, m.SavePreferences(ctx, prefs))

	got, err = m.GetPreferences(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, got.MentionEnabled)
}
