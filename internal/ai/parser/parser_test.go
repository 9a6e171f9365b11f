package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

const groceryJSON = `{"tasks":[
 {"title":"买菜","category":"生活","estimatedTime":30,"subtasks":[{"title":"列购物清单","completed":false},{"title":"去超市","completed":true}]},
 {"title":"打扫房间","category":"生活","estimatedTime":60,"subtasks":[{"title":"整理桌面","completed":false}]}
]}`

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain", raw: groceryJSON},
		{name: "json fence", raw: "```json\n" + groceryJSON + "\n```"},
		{name: "bare fence", raw: "```\n" + groceryJSON + "\n```"},
		{name: "surrounding whitespace", raw: "\n\t  ```json " + groceryJSON + "```  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Normalize(tt.raw)
			require.NoError(t, err)
			require.Len(t, payload.Tasks, 2)

			first := payload.Tasks[0]
			assert.Equal(t, "买菜", first.Title)
			assert.Equal(t, "生活", first.Category)
			assert.Equal(t, 30, first.EstimatedMinutes())
			require.Len(t, first.Subtasks, 2)
			// Returned as written; completion is reset during materialization.
			assert.True(t, first.Subtasks[1].Completed)

			assert.Equal(t, "打扫房间", payload.Tasks[1].Title)
			assert.Equal(t, 60, payload.Tasks[1].EstimatedMinutes())
		})
	}
}

func TestNormalize_FencedEmptyList(t *testing.T) {
	payload, err := Normalize("```json\n{\"tasks\":[]}\n```")

	require.NoError(t, err)
	assert.NotNil(t, payload.Tasks)
	assert.Empty(t, payload.Tasks)
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not json"},
		{name: "empty", raw: ""},
		{name: "truncated", raw: `{"tasks":[{"title":"买菜"`},
		{name: "leading commentary before fence", raw: "Here is your list:\n```json\n" + groceryJSON + "\n```"},
		{name: "trailing commentary after fence", raw: "```json\n" + groceryJSON + "\n```\nHope this helps!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)

			var malformed *domainErrors.MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "got %T", err)
			assert.NotNil(t, malformed.ParseError)
		})
	}
}

func TestNormalize_InvalidSchema(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty object", raw: `{}`},
		{name: "tasks is a string", raw: `{"tasks":"x"}`},
		{name: "tasks is null", raw: `{"tasks":null}`},
		{name: "top level array", raw: `[{"title":"买菜"}]`},
		{name: "top level string", raw: `"tasks"`},
		{name: "title has wrong type", raw: `{"tasks":[{"title":42}]}`},
		{name: "subtasks has wrong type", raw: `{"tasks":[{"title":"a","subtasks":"b"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)

			var invalid *domainErrors.InvalidSchemaError
			assert.True(t, errors.As(err, &invalid), "got %T", err)
		})
	}
}

func TestNormalize_MissingFieldsKept(t *testing.T) {
	payload, err := Normalize(`{"tasks":[{"title":"读书"}]}`)

	require.NoError(t, err)
	require.Len(t, payload.Tasks, 1)
	assert.Equal(t, "读书", payload.Tasks[0].Title)
	assert.Empty(t, payload.Tasks[0].Category)
	assert.Equal(t, 0, payload.Tasks[0].EstimatedMinutes())
	assert.Empty(t, payload.Tasks[0].Subtasks)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "{}", StripFences("```json\n{}\n```"))
	assert.Equal(t, "{}", StripFences("  {}  "))
	assert.Equal(t, "{}", StripFences("```{}```"))
	assert.Equal(t, "note\n```json\n{}", StripFences("note\n```json\n{}\n```"))
}

func TestTaskParser(t *testing.T) {
	p := NewTaskParser()

	payload, err := p.Parse(groceryJSON)
	require.NoError(t, err)
	assert.Len(t, payload.Tasks, 2)
}
