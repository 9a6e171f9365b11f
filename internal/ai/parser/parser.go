// Package parser turns raw model output into a validated task payload.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_-]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// TaskParser parses structuring responses
type TaskParser struct{}

// NewTaskParser creates a new TaskParser
func NewTaskParser() *TaskParser {
	return &TaskParser{}
}

// Parse normalizes the model output. See Normalize.
func (p *TaskParser) Parse(llmOutput string) (entity.StructuredTaskPayload, error) {
	return Normalize(llmOutput)
}

// StripFences trims the text and removes one leading ``` fence (with an
// optional language tag) and one trailing ``` fence. Nothing else is touched,
// so commentary around a fence survives and later fails to parse.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Normalize strips code fences, parses the JSON and checks that the top level
// is an object with a tasks array. The payload is returned as written; no
// defaults are filled in here.
func Normalize(raw string) (entity.StructuredTaskPayload, error) {
	content := StripFences(raw)

	var generic any
	if err := json.Unmarshal([]byte(content), &generic); err != nil {
		return entity.StructuredTaskPayload{}, &domainErrors.MalformedResponseError{ParseError: err}
	}

	root, ok := generic.(map[string]any)
	if !ok {
		return entity.StructuredTaskPayload{}, &domainErrors.InvalidSchemaError{
			Reason: fmt.Sprintf("top level must be an object, got %s", jsonKind(generic)),
		}
	}

	tasks, present := root["tasks"]
	if !present {
		return entity.StructuredTaskPayload{}, &domainErrors.InvalidSchemaError{Reason: "missing tasks field"}
	}
	if _, ok := tasks.([]any); !ok {
		return entity.StructuredTaskPayload{}, &domainErrors.InvalidSchemaError{
			Reason: fmt.Sprintf("tasks must be an array, got %s", jsonKind(tasks)),
		}
	}

	var payload entity.StructuredTaskPayload
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return entity.StructuredTaskPayload{}, &domainErrors.InvalidSchemaError{Reason: err.Error()}
	}
	if payload.Tasks == nil {
		payload.Tasks = []entity.PayloadTask{}
	}

	return payload, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
