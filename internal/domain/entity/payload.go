package entity

import (
	"encoding/json"
	"math"
)

// StructuredTaskPayload is the model's proposal before materialization.
// It is handed to the client for review and never persisted in this shape.
type StructuredTaskPayload struct {
	Tasks []PayloadTask `json:"tasks"`
}

// PayloadTask is one proposed task. EstimatedTime keeps the number exactly
// as the model wrote it; conversion happens at materialization.
type PayloadTask struct {
	Title         string           `json:"title"`
	Category      string           `json:"category"`
	EstimatedTime json.Number      `json:"estimatedTime"`
	Subtasks      []PayloadSubTask `json:"subtasks"`
}

// PayloadSubTask is one proposed subtask.
type PayloadSubTask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// EstimatedMinutes converts the proposed estimate to whole minutes.
// Fractions truncate toward zero; a missing, unparsable or out of int32
// range value is 0.
func (t PayloadTask) EstimatedMinutes() int {
	if t.EstimatedTime == "" {
		return 0
	}
	if n, err := t.EstimatedTime.Int64(); err == nil {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0
		}
		return int(n)
	}
	f, err := t.EstimatedTime.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}
