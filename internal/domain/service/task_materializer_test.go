package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
)

func groceryPayload() entity.StructuredTaskPayload {
	return entity.StructuredTaskPayload{
		Tasks: []entity.PayloadTask{
			{
				Title:         "买菜",
				Category:      "生活",
				EstimatedTime: json.Number("30"),
				Subtasks: []entity.PayloadSubTask{
					{Title: "列购物清单", Completed: true},
					{Title: "去超市", Completed: false},
				},
			},
			{
				Title:         "打扫房间",
				Category:      "生活",
				EstimatedTime: json.Number("60"),
				Subtasks: []entity.PayloadSubTask{
					{Title: "整理桌面"},
					{Title: "拖地"},
					{Title: "倒垃圾", Completed: true},
				},
			},
		},
	}
}

func TestTaskMaterializer_Materialize(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	m := NewTaskMaterializer(WithClock(func() time.Time { return fixed }))

	tasks := m.Materialize(groceryPayload())

	require.Len(t, tasks, 2)
	assert.Equal(t, "买菜", tasks[0].Title)
	assert.Equal(t, "生活", tasks[0].Category)
	assert.Equal(t, 30, tasks[0].EstimatedTime)
	assert.Equal(t, "打扫房间", tasks[1].Title)
	assert.Equal(t, 60, tasks[1].EstimatedTime)

	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
		assert.Equal(t, fixed, task.CreatedAt)
		assert.Equal(t, fixed, task.UpdatedAt)
		for _, st := range task.Subtasks {
			assert.NotEmpty(t, st.ID)
			assert.False(t, st.Completed, "subtask %q should start uncompleted", st.Title)
		}
	}

	require.Len(t, tasks[0].Subtasks, 2)
	assert.Equal(t, "列购物清单", tasks[0].Subtasks[0].Title)
	require.Len(t, tasks[1].Subtasks, 3)
	assert.Equal(t, "倒垃圾", tasks[1].Subtasks[2].Title)
}

func TestTaskMaterializer_EmptyPayload(t *testing.T) {
	m := NewTaskMaterializer()

	tasks := m.Materialize(entity.StructuredTaskPayload{Tasks: []entity.PayloadTask{}})

	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskMaterializer_EstimatedTime(t *testing.T) {
	tests := []struct {
		name     string
		raw      json.Number
		expected int
	}{
		{name: "integer", raw: "45", expected: 45},
		{name: "fraction truncates", raw: "29.9", expected: 29},
		{name: "missing", raw: "", expected: 0},
		{name: "out of range kept verbatim", raw: "500", expected: 500},
		{name: "exponent overflow", raw: "1e30", expected: 0},
		{name: "integer overflow", raw: "99999999999999999999", expected: 0},
	}

	m := NewTaskMaterializer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := m.Materialize(entity.StructuredTaskPayload{
				Tasks: []entity.PayloadTask{{Title: "x", Category: "其他", EstimatedTime: tt.raw}},
			})
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.expected, tasks[0].EstimatedTime)
			assert.Empty(t, tasks[0].Subtasks)
		})
	}
}

func TestTaskMaterializer_FreshIDsEachCall(t *testing.T) {
	m := NewTaskMaterializer()
	payload := groceryPayload()

	first := m.Materialize(payload)
	second := m.Materialize(payload)

	ids := make(map[string]struct{})
	for _, batch := range [][]entity.Task{first, second} {
		for _, task := range batch {
			_, dup := ids[task.ID]
			assert.False(t, dup, "task id %s reused", task.ID)
			ids[task.ID] = struct{}{}
		}
	}
	assert.Len(t, ids, 4)

	for i := range first {
		for j := range first[i].Subtasks {
			assert.NotEqual(t, first[i].Subtasks[j].ID, second[i].Subtasks[j].ID)
		}
	}
}

func TestTaskMaterializer_SubtaskIDsUniqueWithinTask(t *testing.T) {
	// The generator repeats itself; the materializer must skip duplicates.
	seq := []string{"a", "a", "b", "a", "b", "c"}
	n := 0
	task := 0
	m := NewTaskMaterializer(WithIDGenerators(
		func() string { task++; return fmt.Sprintf("task-%d", task) },
		func() string { id := seq[n%len(seq)]; n++; return id },
	))

	tasks := m.Materialize(entity.StructuredTaskPayload{
		Tasks: []entity.PayloadTask{{
			Title:    "t",
			Subtasks: []entity.PayloadSubTask{{Title: "1"}, {Title: "2"}, {Title: "3"}},
		}},
	})

	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].ID)
	got := []string{tasks[0].Subtasks[0].ID, tasks[0].Subtasks[1].ID, tasks[0].Subtasks[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTaskMaterializer_AssignSubtaskIDs(t *testing.T) {
	ids := []string{"new1", "keep", "new2"}
	i := 0
	m := NewTaskMaterializer(WithIDGenerators(
		func() string { return "task" },
		func() string { id := ids[i]; i++; return id },
	))

	got := m.AssignSubtaskIDs([]entity.SubTask{
		{ID: "keep", Title: "a", Completed: true},
		{Title: "b"},
		{ID: "keep", Title: "c"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "keep", got[0].ID)
	assert.True(t, got[0].Completed)
	assert.Equal(t, "new1", got[1].ID)
	// "keep" is already taken, so the generator is asked again
	assert.Equal(t, "new2", got[2].ID)
	assert.Equal(t, "c", got[2].Title)
}
