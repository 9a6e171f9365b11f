package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	"github.com/feiaaa1/mindstream/internal/domain/model"
	"github.com/feiaaa1/mindstream/internal/domain/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.UserSettings{}, &model.Task{}))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func sampleTask(id, userID string, createdAt time.Time) *entity.Task {
	return &entity.Task{
		ID:            id,
		UserID:        userID,
		Title:         "买菜",
		Category:      "生活",
		EstimatedTime: 30,
		Subtasks: []entity.SubTask{
			{ID: "s1", Title: "列购物清单"},
			{ID: "s2", Title: "去超市"},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTaskRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), zap.NewNop())
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, sampleTask("t-old", "user-1", base)))
	require.NoError(t, repo.Create(ctx, sampleTask("t-new", "user-1", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, sampleTask("t-other", "user-2", base)))

	tasks, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t-new", tasks[0].ID)
	assert.Equal(t, "t-old", tasks[1].ID)

	assert.Equal(t, []entity.SubTask{
		{ID: "s1", Title: "列购物清单"},
		{ID: "s2", Title: "去超市"},
	}, tasks[0].Subtasks)
	assert.Equal(t, "生活", tasks[0].Category)
	assert.Equal(t, 30, tasks[0].EstimatedTime)

	empty, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskRepository_FindByID_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), zap.NewNop())
	require.NoError(t, repo.Create(ctx, sampleTask("t-1", "user-1", time.Now().UTC())))

	task, err := repo.FindByID(ctx, "user-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "买菜", task.Title)

	_, err = repo.FindByID(ctx, "user-2", "t-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByID(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), zap.NewNop())
	task := sampleTask("t-1", "user-1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, task))

	task.Title = "买水果"
	task.SetSubtaskCompleted("s1", true)
	task.SetSubtaskCompleted("s2", true)
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.FindByID(ctx, "user-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "买水果", got.Title)
	assert.True(t, got.Completed)
	assert.True(t, got.Subtasks[0].Completed)

	// uncompleting must persist a false value
	got.SetSubtaskCompleted("s2", false)
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.FindByID(ctx, "user-1", "t-1")
	require.NoError(t, err)
	assert.False(t, again.Completed)

	foreign := *task
	foreign.UserID = "user-2"
	assert.ErrorIs(t, repo.Update(ctx, &foreign), repository.ErrNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t), zap.NewNop())
	require.NoError(t, repo.Create(ctx, sampleTask("t-1", "user-1", time.Now().UTC())))

	assert.ErrorIs(t, repo.Delete(ctx, "user-2", "t-1"), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "user-1", "t-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "user-1", "t-1"), repository.ErrNotFound)
}

func TestSettingsRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestDB(t), zap.NewNop())
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.FindByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	settings := entity.NewDefaultSettings("user-1", created)
	settings.AutoSave = false
	require.NoError(t, repo.Save(ctx, settings))

	got, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "google", got.TextProvider)
	assert.Equal(t, "gemini-pro", got.TextModel)
	assert.False(t, got.AutoSave)
	assert.Equal(t, map[string]string{}, got.APIKeys)

	// upsert keeps created_at and replaces the rest
	got.APIKeys["deepseek"] = "sk-deep"
	got.TextProvider = "deepseek"
	got.TextModel = "deepseek-chat"
	got.UpdatedAt = created.Add(time.Hour)
	got.CreatedAt = created.Add(2 * time.Hour)
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "deepseek", again.TextProvider)
	assert.Equal(t, map[string]string{"deepseek": "sk-deep"}, again.APIKeys)
	assert.True(t, again.CreatedAt.Equal(created))
	assert.True(t, again.UpdatedAt.Equal(created.Add(time.Hour)))
}
