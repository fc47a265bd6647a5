package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
	"learnhub/backend/progress"
)

func bookInput(title string, pages int) TaskInput {
	return TaskInput{
		TaskType:      string(progress.Book),
		TaskTitle:     title,
		ResourceLinks: []string{"https://example.com/book"},
		TimeRemain:    "2 hours",
		Reminders:     &models.Reminders{Resume: true},
		Progress:      intPtr(0),
		Pages:         pages,
		EstimatedTime: 120,
		Status:        string(progress.NotStarted),
	}
}

func TestTaskService_Create(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 100))
	require.NoError(t, err)

	assert.Equal(t, 100, task.TotalUnits)
	assert.Equal(t, progress.NotStarted, task.Status)
	assert.Equal(t, 0, task.TimeSpent)
	assert.Equal(t, []string{"https://example.com/book"}, []string(task.ResourceLinks))
	assert.True(t, task.Reminders.Data().Resume)
	require.Len(t, task.ProgressHistory, 1)
	assert.Equal(t, 0, task.ProgressHistory[0].Progress)

	stats, err := env.svc.Stats.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TasksCompleted, "creating a task never counts as completion")
}

func TestTaskService_CreateReportsAllMissingFields(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")

	_, err := env.svc.Tasks.Create(context.Background(), user.ID, TaskInput{TaskTitle: "Go"})
	verr, ok := IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	for _, field := range []string{"taskType", "resourceLinks", "timeRemain", "reminders", "progress", "status"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.NotContains(t, verr.Fields, "taskTitle")
}

func TestTaskService_CreateRejectsInvalidValues(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")

	in := bookInput("Go", 100)
	in.TaskType = "Podcast"
	in.Progress = intPtr(120)
	_, err := env.svc.Tasks.Create(context.Background(), user.ID, in)
	verr, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "taskType")
	assert.Contains(t, verr.Fields, "progress")
}

func TestTaskService_BookProgressAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 100))
	require.NoError(t, err)

	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{PagesRead: floatPtr(30), TimeSpent: 20})
	require.NoError(t, err)
	updated, err := env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{PagesRead: floatPtr(40), TimeSpent: 25})
	require.NoError(t, err)

	assert.Equal(t, 70, updated.Progress)
	assert.Equal(t, 70.0, updated.TaskSpecificProgress)
	assert.Equal(t, progress.InProgress, updated.Status)
	assert.Equal(t, 45, updated.TimeSpent)
	assert.Equal(t, "1 hour", updated.TimeRemain)
	require.Len(t, updated.ProgressHistory, 3)
	assert.Equal(t, 70, updated.ProgressHistory[2].Progress)

	stats, err := env.svc.Stats.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, stats.TotalLearningTime)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, []models.SkillCount{{Skill: "Go", Count: 2}}, []models.SkillCount(stats.TopSkills))
	assert.Zero(t, stats.TasksCompleted)
}

func TestTaskService_CourseUsesEstimatedTime(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	in := bookInput("Kubernetes", 0)
	in.TaskType = string(progress.Course)
	in.Chapters = 10
	in.EstimatedTime = 120
	task, err := env.svc.Tasks.Create(ctx, user.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 10, task.TotalUnits)

	updated, err := env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{LessonsCompleted: floatPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Progress)
}

func TestTaskService_CompletionCountedOnce(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	in := bookInput("Blog post", 0)
	in.TaskType = string(progress.Article)
	task, err := env.svc.Tasks.Create(ctx, user.ID, in)
	require.NoError(t, err)

	updated, err := env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, progress.Completed, updated.Status)

	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{Notes: "re-read"})
	require.NoError(t, err)

	stats, err := env.svc.Stats.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TasksCompleted)
	assert.Equal(t, 1, stats.LearningTasksCompleted)
}

func TestTaskService_NotesAndLinksAppend(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 100))
	require.NoError(t, err)

	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{
		Notes:         "first",
		CodeSnippet:   "fmt.Println(1)",
		ResourceLinks: []string{"https://go.dev", "https://example.com/book"},
	})
	require.NoError(t, err)
	updated, err := env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{
		Notes:         "second",
		ResourceLinks: []string{"https://go.dev", "https://pkg.go.dev"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Notes, 2)
	assert.Equal(t, "first", updated.Notes[0].Content)
	assert.Equal(t, "second", updated.Notes[1].Content)
	require.Len(t, updated.CodeSnippets, 1)
	assert.Equal(t, []string{"https://example.com/book", "https://go.dev", "https://pkg.go.dev"}, []string(updated.ResourceLinks))
	assert.Equal(t, 0.0, updated.TaskSpecificProgress, "missing signal keeps previous value")
}

func TestTaskService_UpdateProgressValidation(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 100))
	require.NoError(t, err)

	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{PagesRead: floatPtr(-5)})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{TimeSpent: -1})
	_, ok = IsValidation(err)
	assert.True(t, ok)

	reloaded, err := env.svc.Tasks.Get(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.ProgressHistory, 1, "rejected updates leave no history")
}

func TestTaskService_OwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	alice := createUser(t, env.db, "alice")
	bob := createUser(t, env.db, "bob")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, alice.ID, bookInput("Go", 100))
	require.NoError(t, err)

	_, err = env.svc.Tasks.Get(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.Tasks.UpdateProgress(ctx, bob.ID, task.ID, ProgressUpdate{PagesRead: floatPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Tasks.Delete(ctx, bob.ID, task.ID), ErrNotFound)

	tasks, err := env.svc.Tasks.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_DeleteCompletedDecrements(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 10))
	require.NoError(t, err)
	_, err = env.svc.Tasks.UpdateProgress(ctx, user.ID, task.ID, ProgressUpdate{PagesRead: floatPtr(10)})
	require.NoError(t, err)

	require.NoError(t, env.svc.Tasks.Delete(ctx, user.ID, task.ID))

	stats, err := env.svc.Stats.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TasksCompleted)
	assert.Equal(t, 1, stats.LearningTasksCompleted)

	_, err = env.svc.Tasks.Get(ctx, user.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var notes int64
	require.NoError(t, env.db.Model(&models.ProgressEntry{}).Where("task_id = ?", task.ID).Count(&notes).Error)
	assert.Zero(t, notes)
}

func TestTaskService_DeleteIncompleteKeepsCounters(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	_, err := env.svc.Stats.mutate(ctx, user.ID, func(st *models.UserStats) bool {
		st.TasksCompleted = 2
		return true
	})
	require.NoError(t, err)

	task, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Go", 100))
	require.NoError(t, err)
	require.NoError(t, env.svc.Tasks.Delete(ctx, user.ID, task.ID))

	stats, err := env.svc.Stats.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TasksCompleted)
}

func TestTaskService_ListInactive(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	ctx := context.Background()

	stale, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Stale", 100))
	require.NoError(t, err)

	env.clock.Advance(96 * time.Hour)
	fresh, err := env.svc.Tasks.Create(ctx, user.ID, bookInput("Fresh", 100))
	require.NoError(t, err)

	tasks, err := env.svc.Tasks.ListInactive(ctx, env.clock.Now().Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, stale.ID, tasks[0].ID)
	assert.NotEqual(t, fresh.ID, tasks[0].ID)
}

func TestMergeLinks(t *testing.T) {
	got := mergeLinks([]string{"a", "b"}, []string{"b", "", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, []string(got))
	assert.Empty(t, mergeLinks(nil, nil))
}
